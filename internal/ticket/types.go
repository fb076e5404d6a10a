// Package ticket implements service requests (zgłoszenia): creation and
// maintenance rules plus the filtered, paginated listing.
package ticket

import (
	"context"
	"time"

	"drimer.pl/drimain/internal/org"
)

// Ticket is a single service request.
type Ticket struct {
	ID          int64           `json:"id"`
	Type        string          `json:"typ"`
	FirstName   string          `json:"imie"`
	LastName    string          `json:"nazwisko"`
	Title       string          `json:"tytul"`
	Description string          `json:"opis"`
	Status      Status          `json:"status"`
	Priority    Priority        `json:"priorytet"`
	Department  *org.Department `json:"dzial,omitempty"`
	ReportedAt  time.Time       `json:"dataGodzina"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Author      *Author         `json:"autor,omitempty"`
}

type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// CreateRequest is the payload accepted when opening a ticket.
type CreateRequest struct {
	Type         string     `json:"typ"`
	FirstName    string     `json:"imie"`
	LastName     string     `json:"nazwisko"`
	Title        string     `json:"tytul"`
	Description  string     `json:"opis"`
	Status       string     `json:"status"`
	Priority     string     `json:"priorytet"`
	DepartmentID *int64     `json:"dzialId"`
	ReportedAt   *time.Time `json:"dataGodzina"`
}

// UpdateRequest carries optional changes; nil fields are left untouched.
type UpdateRequest struct {
	Type         *string    `json:"typ"`
	FirstName    *string    `json:"imie"`
	LastName     *string    `json:"nazwisko"`
	Title        *string    `json:"tytul"`
	Description  *string    `json:"opis"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priorytet"`
	DepartmentID *int64     `json:"dzialId"`
	ReportedAt   *time.Time `json:"dataGodzina"`
}

// Repository persists tickets. Get, Update and Delete return
// apperr.ErrNotFound for unknown ids.
type Repository interface {
	Find(ctx context.Context, q Query) ([]Ticket, int64, error)
	Get(ctx context.Context, id int64) (Ticket, error)
	Create(ctx context.Context, t Ticket) (Ticket, error)
	Update(ctx context.Context, t Ticket) (Ticket, error)
	Delete(ctx context.Context, id int64) error
}
