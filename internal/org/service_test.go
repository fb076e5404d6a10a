package org

import (
	"context"
	"errors"
	"testing"

	"drimer.pl/drimain/internal/apperr"
)

func TestDepartmentCRUD(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.CreateDepartment(ctx, Department{Name: "  "}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	d, err := svc.CreateDepartment(ctx, Department{Name: " Utrzymanie ruchu "})
	if err != nil {
		t.Fatalf("CreateDepartment: %v", err)
	}
	if d.ID == 0 || d.Name != "Utrzymanie ruchu" {
		t.Fatalf("unexpected department: %+v", d)
	}
	if _, err := svc.UpdateDepartment(ctx, d.ID, Department{Name: "Produkcja"}); err != nil {
		t.Fatalf("UpdateDepartment: %v", err)
	}
	if got, _ := svc.Department(ctx, d.ID); got.Name != "Produkcja" {
		t.Fatalf("update not applied: %+v", got)
	}
	if _, err := svc.UpdateDepartment(ctx, 404, Department{Name: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.DeleteDepartment(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDepartment: %v", err)
	}
	if _, err := svc.Department(ctx, d.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestMachineDepartmentReference(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	missing := int64(77)
	if _, err := svc.CreateMachine(ctx, MachineInput{Name: "Tokarka", DepartmentID: &missing}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unknown dzial, got %v", err)
	}

	d, _ := svc.CreateDepartment(ctx, Department{Name: "Narzędziownia"})
	m, err := svc.CreateMachine(ctx, MachineInput{Name: "Tokarka", DepartmentID: &d.ID})
	if err != nil {
		t.Fatalf("CreateMachine: %v", err)
	}
	if m.Department == nil || m.Department.ID != d.ID {
		t.Fatalf("machine not linked to department: %+v", m)
	}
	if err := svc.DeleteDepartment(ctx, d.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict deleting referenced dzial, got %v", err)
	}
}

func TestPersonRoleNormalized(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	p, err := svc.CreatePerson(ctx, Person{Login: "jkowalski", FullName: "Jan Kowalski", Role: "role_biuro"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	if p.Role != "BIURO" {
		t.Fatalf("role not normalized: %q", p.Role)
	}
	if _, err := svc.CreatePerson(ctx, Person{Login: "x", Role: "janitor"}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for unknown rola, got %v", err)
	}
	if _, err := svc.CreatePerson(ctx, Person{Login: "jkowalski"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate login, got %v", err)
	}
	if _, err := svc.ResolvePerson(ctx, 999); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for missing reference, got %v", err)
	}
}
