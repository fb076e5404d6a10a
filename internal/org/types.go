// Package org manages the organizational reference data: departments
// (działy), machines (maszyny) and persons (osoby).
package org

import "context"

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"nazwa"`
}

type Machine struct {
	ID         int64       `json:"id"`
	Name       string      `json:"nazwa"`
	Department *Department `json:"dzial,omitempty"`
}

type Person struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"imieNazwisko"`
	Role     string `json:"rola,omitempty"`
}

// MachineInput is the create/update payload for machines.
type MachineInput struct {
	Name         string `json:"nazwa"`
	DepartmentID *int64 `json:"dzialId"`
}

type DepartmentStore interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id int64) (Department, error)
	CreateDepartment(ctx context.Context, d Department) (Department, error)
	UpdateDepartment(ctx context.Context, d Department) (Department, error)
	DeleteDepartment(ctx context.Context, id int64) error
}

type MachineStore interface {
	ListMachines(ctx context.Context) ([]Machine, error)
	GetMachine(ctx context.Context, id int64) (Machine, error)
	CreateMachine(ctx context.Context, m Machine) (Machine, error)
	UpdateMachine(ctx context.Context, m Machine) (Machine, error)
	DeleteMachine(ctx context.Context, id int64) error
}

type PersonStore interface {
	ListPersons(ctx context.Context) ([]Person, error)
	GetPerson(ctx context.Context, id int64) (Person, error)
	CreatePerson(ctx context.Context, p Person) (Person, error)
	UpdatePerson(ctx context.Context, p Person) (Person, error)
	DeletePerson(ctx context.Context, id int64) error
}

// Store aggregates the reference-data stores. Get methods return
// apperr.ErrNotFound for unknown ids.
type Store interface {
	DepartmentStore
	MachineStore
	PersonStore
}
