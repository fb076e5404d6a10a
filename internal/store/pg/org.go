package pg

import (
	"context"
	"database/sql"
	"errors"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/org"
)

func (s *Store) ListDepartments(ctx context.Context) ([]org.Department, error) {
	rows, err := s.db.QueryContext(ctx, `select id, nazwa from dzialy order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []org.Department{}
	for rows.Next() {
		var d org.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id int64) (org.Department, error) {
	d := org.Department{ID: id}
	err := s.db.QueryRowContext(ctx, `select nazwa from dzialy where id = $1`, id).Scan(&d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return org.Department{}, apperr.NotFound("dzial %d not found", id)
	}
	return d, err
}

func (s *Store) CreateDepartment(ctx context.Context, d org.Department) (org.Department, error) {
	err := s.db.QueryRowContext(ctx, `insert into dzialy (nazwa) values ($1) returning id`, d.Name).Scan(&d.ID)
	if err != nil {
		return org.Department{}, mapError(err, "dzial")
	}
	return d, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, d org.Department) (org.Department, error) {
	res, err := s.db.ExecContext(ctx, `update dzialy set nazwa = $2 where id = $1`, d.ID, d.Name)
	if err != nil {
		return org.Department{}, mapError(err, "dzial")
	}
	if err := requireAffected(res, "dzial", d.ID); err != nil {
		return org.Department{}, err
	}
	return d, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from dzialy where id = $1`, id)
	if err != nil {
		return mapError(err, "dzial")
	}
	return requireAffected(res, "dzial", id)
}

const machineSelect = `
	select m.id, m.nazwa, d.id, d.nazwa
	from maszyny m
	left join dzialy d on d.id = m.dzial_id`

func (s *Store) ListMachines(ctx context.Context) ([]org.Machine, error) {
	rows, err := s.db.QueryContext(ctx, machineSelect+` order by m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []org.Machine{}
	for rows.Next() {
		m, err := scanMachine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) GetMachine(ctx context.Context, id int64) (org.Machine, error) {
	m, err := scanMachine(s.db.QueryRowContext(ctx, machineSelect+` where m.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return org.Machine{}, apperr.NotFound("maszyna %d not found", id)
	}
	return m, err
}

func (s *Store) CreateMachine(ctx context.Context, m org.Machine) (org.Machine, error) {
	err := s.db.QueryRowContext(ctx, `insert into maszyny (nazwa, dzial_id) values ($1, $2) returning id`,
		m.Name, departmentID(m.Department)).Scan(&m.ID)
	if err != nil {
		return org.Machine{}, mapError(err, "maszyna")
	}
	return m, nil
}

func (s *Store) UpdateMachine(ctx context.Context, m org.Machine) (org.Machine, error) {
	res, err := s.db.ExecContext(ctx, `update maszyny set nazwa = $2, dzial_id = $3 where id = $1`,
		m.ID, m.Name, departmentID(m.Department))
	if err != nil {
		return org.Machine{}, mapError(err, "maszyna")
	}
	if err := requireAffected(res, "maszyna", m.ID); err != nil {
		return org.Machine{}, err
	}
	return m, nil
}

func (s *Store) DeleteMachine(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from maszyny where id = $1`, id)
	if err != nil {
		return mapError(err, "maszyna")
	}
	return requireAffected(res, "maszyna", id)
}

func scanMachine(row rowScanner) (org.Machine, error) {
	var (
		m      org.Machine
		depID  sql.NullInt64
		depNam sql.NullString
	)
	if err := row.Scan(&m.ID, &m.Name, &depID, &depNam); err != nil {
		return org.Machine{}, err
	}
	if depID.Valid {
		m.Department = &org.Department{ID: depID.Int64, Name: depNam.String}
	}
	return m, nil
}

func departmentID(d *org.Department) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: d.ID, Valid: true}
}

func (s *Store) ListPersons(ctx context.Context) ([]org.Person, error) {
	rows, err := s.db.QueryContext(ctx, `select id, login, imie_nazwisko, coalesce(rola, '') from osoby order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []org.Person{}
	for rows.Next() {
		var p org.Person
		if err := rows.Scan(&p.ID, &p.Login, &p.FullName, &p.Role); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPerson(ctx context.Context, id int64) (org.Person, error) {
	p := org.Person{ID: id}
	err := s.db.QueryRowContext(ctx, `select login, imie_nazwisko, coalesce(rola, '') from osoby where id = $1`, id).
		Scan(&p.Login, &p.FullName, &p.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return org.Person{}, apperr.NotFound("osoba %d not found", id)
	}
	return p, err
}

func (s *Store) CreatePerson(ctx context.Context, p org.Person) (org.Person, error) {
	err := s.db.QueryRowContext(ctx, `insert into osoby (login, imie_nazwisko, rola) values ($1, $2, $3) returning id`,
		p.Login, p.FullName, nullIfEmpty(p.Role)).Scan(&p.ID)
	if err != nil {
		return org.Person{}, mapError(err, "osoba "+p.Login)
	}
	return p, nil
}

func (s *Store) UpdatePerson(ctx context.Context, p org.Person) (org.Person, error) {
	res, err := s.db.ExecContext(ctx, `update osoby set login = $2, imie_nazwisko = $3, rola = $4 where id = $1`,
		p.ID, p.Login, p.FullName, nullIfEmpty(p.Role))
	if err != nil {
		return org.Person{}, mapError(err, "osoba "+p.Login)
	}
	if err := requireAffected(res, "osoba", p.ID); err != nil {
		return org.Person{}, err
	}
	return p, nil
}

func (s *Store) DeletePerson(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from osoby where id = $1`, id)
	if err != nil {
		return mapError(err, "osoba")
	}
	return requireAffected(res, "osoba", id)
}
