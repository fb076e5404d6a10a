package org

import (
	"context"
	"errors"
	"strings"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/auth"
)

// Service validates reference data before it reaches the store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) Department(ctx context.Context, id int64) (Department, error) {
	return s.store.GetDepartment(ctx, id)
}

func (s *Service) CreateDepartment(ctx context.Context, in Department) (Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Department{}, apperr.Validation("nazwa is required")
	}
	return s.store.CreateDepartment(ctx, Department{Name: name})
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, in Department) (Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Department{}, apperr.Validation("nazwa is required")
	}
	return s.store.UpdateDepartment(ctx, Department{ID: id, Name: name})
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	return s.store.DeleteDepartment(ctx, id)
}

func (s *Service) Machines(ctx context.Context) ([]Machine, error) {
	return s.store.ListMachines(ctx)
}

func (s *Service) Machine(ctx context.Context, id int64) (Machine, error) {
	return s.store.GetMachine(ctx, id)
}

func (s *Service) CreateMachine(ctx context.Context, in MachineInput) (Machine, error) {
	m, err := s.machineFrom(ctx, in)
	if err != nil {
		return Machine{}, err
	}
	return s.store.CreateMachine(ctx, m)
}

func (s *Service) UpdateMachine(ctx context.Context, id int64, in MachineInput) (Machine, error) {
	m, err := s.machineFrom(ctx, in)
	if err != nil {
		return Machine{}, err
	}
	m.ID = id
	return s.store.UpdateMachine(ctx, m)
}

func (s *Service) DeleteMachine(ctx context.Context, id int64) error {
	return s.store.DeleteMachine(ctx, id)
}

func (s *Service) machineFrom(ctx context.Context, in MachineInput) (Machine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Machine{}, apperr.Validation("nazwa is required")
	}
	m := Machine{Name: name}
	if in.DepartmentID != nil {
		d, err := s.ResolveDepartment(ctx, *in.DepartmentID)
		if err != nil {
			return Machine{}, err
		}
		m.Department = &d
	}
	return m, nil
}

// ResolveDepartment loads a department referenced from another entity's
// payload. A missing department is a validation failure of that payload.
func (s *Service) ResolveDepartment(ctx context.Context, id int64) (Department, error) {
	d, err := s.store.GetDepartment(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return Department{}, apperr.Validation("dzial %d not found", id)
	}
	return d, err
}

// ResolveMachine loads a machine referenced from another entity's payload.
func (s *Service) ResolveMachine(ctx context.Context, id int64) (Machine, error) {
	m, err := s.store.GetMachine(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return Machine{}, apperr.Validation("maszyna %d not found", id)
	}
	return m, err
}

// ResolvePerson loads a person referenced from another entity's payload.
func (s *Service) ResolvePerson(ctx context.Context, id int64) (Person, error) {
	p, err := s.store.GetPerson(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return Person{}, apperr.Validation("osoba %d not found", id)
	}
	return p, err
}

func (s *Service) Persons(ctx context.Context) ([]Person, error) {
	return s.store.ListPersons(ctx)
}

func (s *Service) Person(ctx context.Context, id int64) (Person, error) {
	return s.store.GetPerson(ctx, id)
}

func (s *Service) CreatePerson(ctx context.Context, in Person) (Person, error) {
	p, err := normalizePerson(in)
	if err != nil {
		return Person{}, err
	}
	return s.store.CreatePerson(ctx, p)
}

func (s *Service) UpdatePerson(ctx context.Context, id int64, in Person) (Person, error) {
	p, err := normalizePerson(in)
	if err != nil {
		return Person{}, err
	}
	p.ID = id
	return s.store.UpdatePerson(ctx, p)
}

func (s *Service) DeletePerson(ctx context.Context, id int64) error {
	return s.store.DeletePerson(ctx, id)
}

func normalizePerson(in Person) (Person, error) {
	p := Person{
		Login:    strings.TrimSpace(in.Login),
		FullName: strings.TrimSpace(in.FullName),
	}
	if p.Login == "" {
		return Person{}, apperr.Validation("login is required")
	}
	if raw := strings.TrimSpace(in.Role); raw != "" {
		role, ok := auth.ParseRole(raw)
		if !ok {
			return Person{}, apperr.Validation("unknown rola %q", raw)
		}
		p.Role = role.String()
	}
	return p, nil
}
