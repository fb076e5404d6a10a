// Package pg is the PostgreSQL store of record.
package pg

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/org"
	"drimer.pl/drimain/internal/schedule"
	"drimer.pl/drimain/internal/ticket"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

type Store struct {
	db *sql.DB
}

var (
	_ auth.CredentialStore = (*Store)(nil)
	_ auth.UserStore       = (*Store)(nil)
	_ org.Store            = (*Store)(nil)
	_ ticket.Repository    = (*Store)(nil)
)

// Open connects through the pgx database/sql driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Schedules exposes the schedule repository, whose method names overlap
// with the ticket repository.
func (s *Store) Schedules() schedule.Repository { return scheduleRepo{db: s.db} }

// mapError translates constraint violations into domain error kinds.
func mapError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return apperr.Conflict("%s already exists", what)
		case pgErrForeignKeyViolation:
			return apperr.Conflict("%s is referenced by other records or references a missing record", what)
		}
	}
	return err
}

func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// requireAffected maps an update or delete that touched no row to not found.
func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("%s %d not found", what, id)
	}
	return nil
}
