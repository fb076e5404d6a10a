package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/org"
	"drimer.pl/drimain/internal/ticket"
)

// ticketColumns maps sortable wire names to SQL columns. Only these
// expressions ever reach an ORDER BY clause.
var ticketColumns = map[string]string{
	ticket.SortID:         "z.id",
	ticket.SortType:       "z.typ",
	ticket.SortTitle:      "z.tytul",
	ticket.SortFirstName:  "z.imie",
	ticket.SortLastName:   "z.nazwisko",
	ticket.SortStatus:     "z.status",
	ticket.SortPriority:   "z.priorytet",
	ticket.SortReportedAt: "z.data_godzina",
	ticket.SortCreatedAt:  "z.created_at",
	ticket.SortUpdatedAt:  "z.updated_at",
}

const ticketSelect = `
	select z.id, z.typ, z.imie, z.nazwisko, z.tytul, z.opis, z.status, z.priorytet,
	       z.data_godzina, z.created_at, z.updated_at,
	       d.id, d.nazwa, u.id, u.username
	from zgloszenia z
	left join dzialy d on d.id = z.dzial_id
	left join users u on u.id = z.autor_id`

// ticketWhere renders f as a WHERE clause with positional arguments.
func ticketWhere(f ticket.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != nil {
		add("z.status = $%d", string(*f.Status))
	}
	if f.Priority != nil {
		add("z.priorytet = $%d", string(*f.Priority))
	}
	if f.Type != "" {
		add("z.typ = $%d", f.Type)
	}
	if f.DepartmentID != nil {
		add("z.dzial_id = $%d", *f.DepartmentID)
	}
	if f.Text != "" {
		args = append(args, "%"+escapeLike(f.Text)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(z.typ ilike $%[1]d escape '\\' or z.tytul ilike $%[1]d escape '\\' or z.opis ilike $%[1]d escape '\\' or z.imie ilike $%[1]d escape '\\' or z.nazwisko ilike $%[1]d escape '\\')", n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " where " + strings.Join(conds, " and "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func ticketOrder(s ticket.Sort) string {
	col, ok := ticketColumns[s.Field]
	if !ok {
		col = ticketColumns[ticket.DefaultSort.Field]
	}
	dir := "asc"
	if s.Desc {
		dir = "desc"
	}
	return fmt.Sprintf(" order by %s %s, z.id %s", col, dir, dir)
}

func (s *Store) Find(ctx context.Context, q ticket.Query) ([]ticket.Ticket, int64, error) {
	where, args := ticketWhere(q.Filter)

	var total int64
	if err := s.db.QueryRowContext(ctx, `select count(*) from zgloszenia z`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count zgloszenia: %w", err)
	}
	out := []ticket.Ticket{}
	if total == 0 || int64(q.Page.Offset()) >= total {
		return out, total, nil
	}

	n := len(args)
	query := ticketSelect + where + ticketOrder(q.Sort) + fmt.Sprintf(" limit $%d offset $%d", n+1, n+2)
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Page.Size, q.Page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("select zgloszenia: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id int64) (ticket.Ticket, error) {
	t, err := scanTicket(s.db.QueryRowContext(ctx, ticketSelect+` where z.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return ticket.Ticket{}, apperr.NotFound("zgloszenie %d not found", id)
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	err := s.db.QueryRowContext(ctx, `
		insert into zgloszenia (typ, imie, nazwisko, tytul, opis, status, priorytet,
		                        dzial_id, data_godzina, created_at, updated_at, autor_id)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		returning id
	`, t.Type, t.FirstName, t.LastName, t.Title, t.Description, string(t.Status), string(t.Priority),
		departmentID(t.Department), t.ReportedAt, t.CreatedAt, t.UpdatedAt, authorID(t.Author)).Scan(&t.ID)
	if err != nil {
		return ticket.Ticket{}, mapError(err, "zgloszenie")
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, t ticket.Ticket) (ticket.Ticket, error) {
	res, err := s.db.ExecContext(ctx, `
		update zgloszenia
		set typ = $2, imie = $3, nazwisko = $4, tytul = $5, opis = $6, status = $7,
		    priorytet = $8, dzial_id = $9, data_godzina = $10, updated_at = $11
		where id = $1
	`, t.ID, t.Type, t.FirstName, t.LastName, t.Title, t.Description, string(t.Status), string(t.Priority),
		departmentID(t.Department), t.ReportedAt, t.UpdatedAt)
	if err != nil {
		return ticket.Ticket{}, mapError(err, "zgloszenie")
	}
	if err := requireAffected(res, "zgloszenie", t.ID); err != nil {
		return ticket.Ticket{}, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from zgloszenia where id = $1`, id)
	if err != nil {
		return mapError(err, "zgloszenie")
	}
	return requireAffected(res, "zgloszenie", id)
}

func scanTicket(row rowScanner) (ticket.Ticket, error) {
	var (
		t                 ticket.Ticket
		status, priority  string
		depID, authID     sql.NullInt64
		depName, authName sql.NullString
	)
	err := row.Scan(&t.ID, &t.Type, &t.FirstName, &t.LastName, &t.Title, &t.Description, &status, &priority,
		&t.ReportedAt, &t.CreatedAt, &t.UpdatedAt, &depID, &depName, &authID, &authName)
	if err != nil {
		return ticket.Ticket{}, err
	}
	t.Status = ticket.StatusForCreate(status)
	t.Priority = ticket.PriorityForCreate(priority)
	if depID.Valid {
		t.Department = &org.Department{ID: depID.Int64, Name: depName.String}
	}
	if authID.Valid {
		t.Author = &ticket.Author{ID: authID.Int64, Username: authName.String}
	}
	return t, nil
}

func authorID(a *ticket.Author) sql.NullInt64 {
	if a == nil || a.ID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: a.ID, Valid: true}
}
