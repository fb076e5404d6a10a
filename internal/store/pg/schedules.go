package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/schedule"
)

type scheduleRepo struct {
	db *sql.DB
}

var _ schedule.Repository = scheduleRepo{}

const scheduleSelect = `
	select h.id, h.data, h.opis, h.status, m.id, m.nazwa, o.id, o.imie_nazwisko
	from harmonogramy h
	left join maszyny m on m.id = h.maszyna_id
	left join osoby o on o.id = h.osoba_id`

func (r scheduleRepo) List(ctx context.Context, f schedule.Filter) ([]schedule.Harmonogram, error) {
	var (
		conds []string
		args  []any
	)
	if f.Year != 0 {
		args = append(args, f.Year)
		conds = append(conds, fmt.Sprintf("extract(year from h.data) = $%d", len(args)))
	}
	if f.Month != 0 {
		args = append(args, f.Month)
		conds = append(conds, fmt.Sprintf("extract(month from h.data) = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		args = append(args, s)
		conds = append(conds, fmt.Sprintf("upper(h.status) = upper($%d)", len(args)))
	}
	query := scheduleSelect
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	rows, err := r.db.QueryContext(ctx, query+" order by h.data, h.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []schedule.Harmonogram{}
	for rows.Next() {
		h, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r scheduleRepo) Get(ctx context.Context, id int64) (schedule.Harmonogram, error) {
	h, err := scanSchedule(r.db.QueryRowContext(ctx, scheduleSelect+` where h.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return schedule.Harmonogram{}, apperr.NotFound("harmonogram %d not found", id)
	}
	return h, err
}

func (r scheduleRepo) Create(ctx context.Context, h schedule.Harmonogram) (schedule.Harmonogram, error) {
	err := r.db.QueryRowContext(ctx, `
		insert into harmonogramy (data, opis, maszyna_id, osoba_id, status)
		values ($1, $2, $3, $4, $5)
		returning id
	`, h.Date.Time, h.Description, machineRefID(h.Machine), personRefID(h.Person), string(h.Status)).Scan(&h.ID)
	if err != nil {
		return schedule.Harmonogram{}, mapError(err, "harmonogram")
	}
	return h, nil
}

func (r scheduleRepo) Update(ctx context.Context, h schedule.Harmonogram) (schedule.Harmonogram, error) {
	res, err := r.db.ExecContext(ctx, `
		update harmonogramy
		set data = $2, opis = $3, maszyna_id = $4, osoba_id = $5, status = $6
		where id = $1
	`, h.ID, h.Date.Time, h.Description, machineRefID(h.Machine), personRefID(h.Person), string(h.Status))
	if err != nil {
		return schedule.Harmonogram{}, mapError(err, "harmonogram")
	}
	if err := requireAffected(res, "harmonogram", h.ID); err != nil {
		return schedule.Harmonogram{}, err
	}
	return h, nil
}

func (r scheduleRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `delete from harmonogramy where id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "harmonogram", id)
}

func scanSchedule(row rowScanner) (schedule.Harmonogram, error) {
	var (
		h                 schedule.Harmonogram
		day               time.Time
		status            string
		machID, personID  sql.NullInt64
		machName, persNam sql.NullString
	)
	if err := row.Scan(&h.ID, &day, &h.Description, &status, &machID, &machName, &personID, &persNam); err != nil {
		return schedule.Harmonogram{}, err
	}
	h.Date = schedule.NewDate(day.Year(), day.Month(), day.Day())
	h.Status = schedule.Status(status)
	if machID.Valid {
		h.Machine = &schedule.MachineRef{ID: machID.Int64, Name: machName.String}
	}
	if personID.Valid {
		h.Person = &schedule.PersonRef{ID: personID.Int64, FullName: persNam.String}
	}
	return h, nil
}

func machineRefID(m *schedule.MachineRef) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: m.ID, Valid: true}
}

func personRefID(p *schedule.PersonRef) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: p.ID, Valid: true}
}
