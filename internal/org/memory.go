package org

import (
	"context"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/store/mem"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	departments *mem.Table[Department]
	machines    *mem.Table[Machine]
	persons     *mem.Table[Person]
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		departments: mem.NewTable[Department](),
		machines:    mem.NewTable[Machine](),
		persons:     mem.NewTable[Person](),
	}
}

func (m *MemoryStore) ListDepartments(context.Context) ([]Department, error) {
	return m.departments.All(), nil
}

func (m *MemoryStore) GetDepartment(_ context.Context, id int64) (Department, error) {
	d, ok := m.departments.Get(id)
	if !ok {
		return Department{}, apperr.NotFound("dzial %d not found", id)
	}
	return d, nil
}

func (m *MemoryStore) CreateDepartment(_ context.Context, d Department) (Department, error) {
	return m.departments.Insert(func(id int64) Department {
		d.ID = id
		return d
	}), nil
}

func (m *MemoryStore) UpdateDepartment(_ context.Context, d Department) (Department, error) {
	out, ok := m.departments.Update(d.ID, func(Department) Department { return d })
	if !ok {
		return Department{}, apperr.NotFound("dzial %d not found", d.ID)
	}
	return out, nil
}

func (m *MemoryStore) DeleteDepartment(_ context.Context, id int64) error {
	inUse := false
	m.machines.Each(func(mc Machine) {
		if mc.Department != nil && mc.Department.ID == id {
			inUse = true
		}
	})
	if inUse {
		return apperr.Conflict("dzial %d is referenced by machines", id)
	}
	if !m.departments.Delete(id) {
		return apperr.NotFound("dzial %d not found", id)
	}
	return nil
}

func (m *MemoryStore) ListMachines(context.Context) ([]Machine, error) {
	return m.machines.All(), nil
}

func (m *MemoryStore) GetMachine(_ context.Context, id int64) (Machine, error) {
	mc, ok := m.machines.Get(id)
	if !ok {
		return Machine{}, apperr.NotFound("maszyna %d not found", id)
	}
	return mc, nil
}

func (m *MemoryStore) CreateMachine(_ context.Context, mc Machine) (Machine, error) {
	return m.machines.Insert(func(id int64) Machine {
		mc.ID = id
		return mc
	}), nil
}

func (m *MemoryStore) UpdateMachine(_ context.Context, mc Machine) (Machine, error) {
	out, ok := m.machines.Update(mc.ID, func(Machine) Machine { return mc })
	if !ok {
		return Machine{}, apperr.NotFound("maszyna %d not found", mc.ID)
	}
	return out, nil
}

func (m *MemoryStore) DeleteMachine(_ context.Context, id int64) error {
	if !m.machines.Delete(id) {
		return apperr.NotFound("maszyna %d not found", id)
	}
	return nil
}

func (m *MemoryStore) ListPersons(context.Context) ([]Person, error) {
	return m.persons.All(), nil
}

func (m *MemoryStore) GetPerson(_ context.Context, id int64) (Person, error) {
	p, ok := m.persons.Get(id)
	if !ok {
		return Person{}, apperr.NotFound("osoba %d not found", id)
	}
	return p, nil
}

func (m *MemoryStore) CreatePerson(_ context.Context, p Person) (Person, error) {
	conflict := false
	m.persons.Each(func(existing Person) {
		if existing.Login == p.Login {
			conflict = true
		}
	})
	if conflict {
		return Person{}, apperr.Conflict("login %q already exists", p.Login)
	}
	return m.persons.Insert(func(id int64) Person {
		p.ID = id
		return p
	}), nil
}

func (m *MemoryStore) UpdatePerson(_ context.Context, p Person) (Person, error) {
	out, ok := m.persons.Update(p.ID, func(Person) Person { return p })
	if !ok {
		return Person{}, apperr.NotFound("osoba %d not found", p.ID)
	}
	return out, nil
}

func (m *MemoryStore) DeletePerson(_ context.Context, id int64) error {
	if !m.persons.Delete(id) {
		return apperr.NotFound("osoba %d not found", id)
	}
	return nil
}
