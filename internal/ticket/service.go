package ticket

import (
	"context"
	"strings"
	"time"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/auth"
	"drimer.pl/drimain/internal/org"
)

// DepartmentResolver looks up departments referenced by ticket payloads.
type DepartmentResolver interface {
	ResolveDepartment(ctx context.Context, id int64) (org.Department, error)
}

// Service applies ticket rules on top of a Repository.
type Service struct {
	repo        Repository
	departments DepartmentResolver
	now         func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewService(repo Repository, departments DepartmentResolver, opts ...Option) *Service {
	s := &Service{repo: repo, departments: departments, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List answers a normalized listing query with one page of tickets.
func (s *Service) List(ctx context.Context, q Query) (Page[Ticket], error) {
	items, total, err := s.repo.Find(ctx, q)
	if err != nil {
		return Page[Ticket]{}, err
	}
	return NewPage(items, q.Page, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Ticket, error) {
	return s.repo.Get(ctx, id)
}

// Create opens a ticket authored by the given identity.
func (s *Service) Create(ctx context.Context, req CreateRequest, author auth.Identity) (Ticket, error) {
	t := Ticket{
		Type:        strings.TrimSpace(req.Type),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      StatusForCreate(req.Status),
		Priority:    PriorityForCreate(req.Priority),
	}
	if t.Type == "" {
		return Ticket{}, apperr.Validation("typ is required")
	}
	if t.Title == "" {
		return Ticket{}, apperr.Validation("tytul is required")
	}
	if req.DepartmentID != nil {
		d, err := s.departments.ResolveDepartment(ctx, *req.DepartmentID)
		if err != nil {
			return Ticket{}, err
		}
		t.Department = &d
	}
	now := s.now().UTC()
	t.ReportedAt = now
	if req.ReportedAt != nil {
		t.ReportedAt = req.ReportedAt.UTC()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if author.Username != "" {
		t.Author = &Author{ID: author.UserID, Username: author.Username}
	}
	return s.repo.Create(ctx, t)
}

// Update changes the provided fields. Only ADMIN and BIURO may update.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest, actor auth.Identity) (Ticket, error) {
	if !auth.CanModifyTickets(actor.Roles) {
		return Ticket{}, auth.ErrForbidden
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	if req.Type != nil {
		if strings.TrimSpace(*req.Type) == "" {
			return Ticket{}, apperr.Validation("typ must not be blank")
		}
		t.Type = strings.TrimSpace(*req.Type)
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return Ticket{}, apperr.Validation("tytul must not be blank")
		}
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.FirstName != nil {
		t.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		t.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = StatusForUpdate(*req.Status, t.Status)
	}
	if req.Priority != nil {
		t.Priority = PriorityForUpdate(*req.Priority, t.Priority)
	}
	if req.DepartmentID != nil {
		d, err := s.departments.ResolveDepartment(ctx, *req.DepartmentID)
		if err != nil {
			return Ticket{}, err
		}
		t.Department = &d
	}
	if req.ReportedAt != nil {
		t.ReportedAt = req.ReportedAt.UTC()
	}
	t.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, t)
}

// Delete removes a ticket. Only ADMIN and BIURO may delete.
func (s *Service) Delete(ctx context.Context, id int64, actor auth.Identity) error {
	if !auth.CanModifyTickets(actor.Roles) {
		return auth.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
