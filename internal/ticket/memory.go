package ticket

import (
	"cmp"
	"context"
	"sort"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/store/mem"
)

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	rows *mem.Table[Ticket]
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: mem.NewTable[Ticket]()}
}

func (r *MemoryRepository) Find(_ context.Context, q Query) ([]Ticket, int64, error) {
	var matched []Ticket
	r.rows.Each(func(t Ticket) {
		if q.Filter.Matches(t) {
			matched = append(matched, t)
		}
	})
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareBy(q.Sort.Field, matched[i], matched[j])
		if c == 0 {
			c = cmp.Compare(matched[i].ID, matched[j].ID)
		}
		if q.Sort.Desc {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(matched))
	start := q.Page.Offset()
	if start >= len(matched) {
		return []Ticket{}, total, nil
	}
	end := min(start+q.Page.Size, len(matched))
	return matched[start:end], total, nil
}

func compareBy(field string, a, b Ticket) int {
	switch field {
	case SortID:
		return cmp.Compare(a.ID, b.ID)
	case SortType:
		return cmp.Compare(a.Type, b.Type)
	case SortTitle:
		return cmp.Compare(a.Title, b.Title)
	case SortFirstName:
		return cmp.Compare(a.FirstName, b.FirstName)
	case SortLastName:
		return cmp.Compare(a.LastName, b.LastName)
	case SortStatus:
		return cmp.Compare(a.Status, b.Status)
	case SortPriority:
		return cmp.Compare(a.Priority, b.Priority)
	case SortReportedAt:
		return a.ReportedAt.Compare(b.ReportedAt)
	case SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *MemoryRepository) Get(_ context.Context, id int64) (Ticket, error) {
	t, ok := r.rows.Get(id)
	if !ok {
		return Ticket{}, apperr.NotFound("zgloszenie %d not found", id)
	}
	return t, nil
}

func (r *MemoryRepository) Create(_ context.Context, t Ticket) (Ticket, error) {
	return r.rows.Insert(func(id int64) Ticket {
		t.ID = id
		return t
	}), nil
}

func (r *MemoryRepository) Update(_ context.Context, t Ticket) (Ticket, error) {
	out, ok := r.rows.Update(t.ID, func(Ticket) Ticket { return t })
	if !ok {
		return Ticket{}, apperr.NotFound("zgloszenie %d not found", t.ID)
	}
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	if !r.rows.Delete(id) {
		return apperr.NotFound("zgloszenie %d not found", id)
	}
	return nil
}
