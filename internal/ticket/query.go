package ticket

import (
	"math"
	"strconv"
	"strings"

	"drimer.pl/drimain/internal/apperr"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 1000

	maxPageIndex = math.MaxInt32
)

// Sortable fields, in their wire spelling.
const (
	SortID         = "id"
	SortType       = "typ"
	SortTitle      = "tytul"
	SortFirstName  = "imie"
	SortLastName   = "nazwisko"
	SortStatus     = "status"
	SortPriority   = "priorytet"
	SortReportedAt = "dataGodzina"
	SortCreatedAt  = "createdAt"
	SortUpdatedAt  = "updatedAt"
)

// SortFields lists every field accepted by ParseSort.
var SortFields = []string{
	SortID, SortType, SortTitle, SortFirstName, SortLastName,
	SortStatus, SortPriority, SortReportedAt, SortCreatedAt, SortUpdatedAt,
}

// DefaultSort orders newest tickets first.
var DefaultSort = Sort{Field: SortCreatedAt, Desc: true}

// RawQuery is the listing request as received, before normalization.
type RawQuery struct {
	Status   string
	Priority string
	Type     string
	Dzial    string
	Text     string
	Page     string
	Size     string
	Sort     string
}

// Filter holds normalized listing filters. Nil or empty fields do not filter.
type Filter struct {
	Status       *Status
	Priority     *Priority
	Type         string
	DepartmentID *int64
	Text         string
}

type Sort struct {
	Field string
	Desc  bool
}

type PageRequest struct {
	Page int
	Size int
}

// Offset is the index of the first element of the page.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// Query is a fully normalized listing request.
type Query struct {
	Filter Filter
	Sort   Sort
	Page   PageRequest
}

// ParseQuery normalizes a listing request. Unknown status and priority
// tokens are dropped silently; malformed paging, department or sort input
// is a validation error.
func ParseQuery(raw RawQuery) (Query, error) {
	q := Query{
		Filter: Filter{
			Status:   StatusFilter(raw.Status),
			Priority: PriorityFilter(raw.Priority),
			Type:     strings.TrimSpace(raw.Type),
			Text:     strings.TrimSpace(raw.Text),
		},
	}
	if d := strings.TrimSpace(raw.Dzial); d != "" {
		id, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return Query{}, apperr.Validation("dzial must be an integer")
		}
		q.Filter.DepartmentID = &id
	}

	page, err := parseIntParam("page", raw.Page, 0)
	if err != nil {
		return Query{}, err
	}
	if page < 0 {
		return Query{}, apperr.Validation("page must be >= 0")
	}
	if page > maxPageIndex {
		return Query{}, apperr.Validation("page must be <= %d", maxPageIndex)
	}
	size, err := parseIntParam("size", raw.Size, DefaultPageSize)
	if err != nil {
		return Query{}, err
	}
	if size < 1 {
		return Query{}, apperr.Validation("size must be >= 1")
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	q.Page = PageRequest{Page: page, Size: size}

	q.Sort, err = ParseSort(raw.Sort)
	if err != nil {
		return Query{}, err
	}
	return q, nil
}

// ParseSort reads "field" or "field,direction". The direction is ascending
// only for "asc" (any case); everything else, including no direction, sorts
// descending.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort, nil
	}
	parts := strings.Split(raw, ",")
	field, ok := canonicalSortField(strings.TrimSpace(parts[0]))
	if !ok {
		return Sort{}, apperr.Validation("unsupported sort field %q", strings.TrimSpace(parts[0]))
	}
	desc := true
	if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), "asc") {
		desc = false
	}
	return Sort{Field: field, Desc: desc}, nil
}

func canonicalSortField(name string) (string, bool) {
	for _, f := range SortFields {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

func parseIntParam(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	return v, nil
}

// Matches reports whether t satisfies every filter.
func (f Filter) Matches(t Ticket) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.DepartmentID != nil && (t.Department == nil || t.Department.ID != *f.DepartmentID) {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		for _, field := range []string{t.Type, t.Title, t.Description, t.FirstName, t.LastName} {
			if strings.Contains(strings.ToLower(field), needle) {
				return true
			}
		}
		return false
	}
	return true
}
