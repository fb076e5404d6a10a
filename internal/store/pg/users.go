package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"drimer.pl/drimain/internal/auth"
)

const userSelect = `
	select u.id, u.username, u.password_hash, u.created_at,
	       coalesce(string_agg(r.role, ',' order by r.role), '')
	from users u
	left join user_roles r on r.user_id = u.id`

func (s *Store) FindByUsername(ctx context.Context, username string) (auth.User, error) {
	row := s.db.QueryRowContext(ctx, userSelect+`
	where u.username = $1
	group by u.id`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrNotFound
	}
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]auth.User, error) {
	rows, err := s.db.QueryContext(ctx, userSelect+`
	group by u.id
	order by u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []auth.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, roles auth.Roles) (auth.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return auth.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	u := auth.User{Username: username, PasswordHash: passwordHash}
	if err := tx.QueryRowContext(ctx, `
		insert into users (username, password_hash)
		values ($1, $2)
		returning id, created_at
	`, username, passwordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		return auth.User{}, mapError(err, "user "+username)
	}
	for _, r := range roles {
		if _, err := tx.ExecContext(ctx, `insert into user_roles (user_id, role) values ($1, $2)`, u.ID, string(r)); err != nil {
			return auth.User{}, mapError(err, "role "+string(r))
		}
	}
	if err := tx.Commit(); err != nil {
		return auth.User{}, err
	}
	u.Roles = append(auth.Roles(nil), roles...)
	return u, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var (
		u     auth.User
		roles string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &roles); err != nil {
		return auth.User{}, err
	}
	if roles != "" {
		u.Roles = auth.NormalizeRoles(strings.Split(roles, ","))
	}
	return u, nil
}
