package schedule

import (
	"context"

	"drimer.pl/drimain/internal/apperr"
)

type Service struct {
	repo Repository
	refs References
}

func NewService(repo Repository, refs References) *Service {
	return &Service{repo: repo, refs: refs}
}

// List returns schedules ordered by date then id.
func (s *Service) List(ctx context.Context, f Filter) ([]Harmonogram, error) {
	if f.Month < 0 || f.Month > 12 {
		return nil, apperr.Validation("month must be between 1 and 12")
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Harmonogram, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a schedule. An absent or unknown status becomes PLANOWANE.
func (s *Service) Create(ctx context.Context, req Request) (Harmonogram, error) {
	if req.Date == nil || req.Date.IsZero() {
		return Harmonogram{}, apperr.Validation("data is required")
	}
	h := Harmonogram{
		Date:        *req.Date,
		Description: req.Description,
		Status:      StatusPlanned,
	}
	if st, ok := ParseStatus(req.Status); ok {
		h.Status = st
	}
	if err := s.applyRefs(ctx, &h, req); err != nil {
		return Harmonogram{}, err
	}
	return s.repo.Create(ctx, h)
}

// Update overwrites date, description and references when given. An unknown
// status keeps the current one.
func (s *Service) Update(ctx context.Context, id int64, req Request) (Harmonogram, error) {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return Harmonogram{}, err
	}
	if req.Date != nil && !req.Date.IsZero() {
		h.Date = *req.Date
	}
	h.Description = req.Description
	if st, ok := ParseStatus(req.Status); ok {
		h.Status = st
	}
	if err := s.applyRefs(ctx, &h, req); err != nil {
		return Harmonogram{}, err
	}
	return s.repo.Update(ctx, h)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) applyRefs(ctx context.Context, h *Harmonogram, req Request) error {
	if req.MachineID != nil {
		m, err := s.refs.ResolveMachine(ctx, *req.MachineID)
		if err != nil {
			return err
		}
		h.Machine = &MachineRef{ID: m.ID, Name: m.Name}
	}
	if req.PersonID != nil {
		p, err := s.refs.ResolvePerson(ctx, *req.PersonID)
		if err != nil {
			return err
		}
		h.Person = &PersonRef{ID: p.ID, FullName: p.FullName}
	}
	return nil
}
