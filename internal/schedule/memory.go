package schedule

import (
	"context"
	"sort"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/store/mem"
)

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	rows *mem.Table[Harmonogram]
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: mem.NewTable[Harmonogram]()}
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Harmonogram, error) {
	out := []Harmonogram{}
	for _, h := range r.rows.All() {
		if f.Matches(h) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (Harmonogram, error) {
	h, ok := r.rows.Get(id)
	if !ok {
		return Harmonogram{}, apperr.NotFound("harmonogram %d not found", id)
	}
	return h, nil
}

func (r *MemoryRepository) Create(_ context.Context, h Harmonogram) (Harmonogram, error) {
	return r.rows.Insert(func(id int64) Harmonogram {
		h.ID = id
		return h
	}), nil
}

func (r *MemoryRepository) Update(_ context.Context, h Harmonogram) (Harmonogram, error) {
	out, ok := r.rows.Update(h.ID, func(Harmonogram) Harmonogram { return h })
	if !ok {
		return Harmonogram{}, apperr.NotFound("harmonogram %d not found", h.ID)
	}
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	if !r.rows.Delete(id) {
		return apperr.NotFound("harmonogram %d not found", id)
	}
	return nil
}
