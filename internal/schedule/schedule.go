// Package schedule manages maintenance schedules (harmonogramy) that tie a
// date to a machine and the person responsible for it.
package schedule

import (
	"context"
	"strings"
	"time"

	"drimer.pl/drimain/internal/apperr"
	"drimer.pl/drimain/internal/org"
)

// Status of a scheduled maintenance entry.
type Status string

const (
	StatusPlanned    Status = "PLANOWANE"
	StatusInProgress Status = "W_TRAKCIE"
	StatusDone       Status = "ZAKONCZONE"
	StatusCancelled  Status = "ANULOWANE"
)

var allStatuses = []Status{StatusPlanned, StatusInProgress, StatusDone, StatusCancelled}

// ParseStatus matches an enumeration name case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range allStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return "", false
}

// Date is a calendar day encoded as YYYY-MM-DD.
type Date struct{ time.Time }

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, apperr.Validation("data must be formatted as YYYY-MM-DD")
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MachineRef and PersonRef are the compact views embedded in a schedule.
type MachineRef struct {
	ID   int64  `json:"id"`
	Name string `json:"nazwa"`
}

type PersonRef struct {
	ID       int64  `json:"id"`
	FullName string `json:"imieNazwisko"`
}

type Harmonogram struct {
	ID          int64       `json:"id"`
	Date        Date        `json:"data"`
	Description string      `json:"opis"`
	Machine     *MachineRef `json:"maszyna"`
	Person      *PersonRef  `json:"osoba"`
	Status      Status      `json:"status"`
}

// Request is the create and update payload.
type Request struct {
	Date        *Date  `json:"data"`
	Description string `json:"opis"`
	MachineID   *int64 `json:"maszynaId"`
	PersonID    *int64 `json:"osobaId"`
	Status      string `json:"status"`
}

// Filter narrows List. Zero fields do not filter; Status compares by name.
type Filter struct {
	Year   int
	Month  int
	Status string
}

func (f Filter) Matches(h Harmonogram) bool {
	if f.Year != 0 && h.Date.Year() != f.Year {
		return false
	}
	if f.Month != 0 && int(h.Date.Month()) != f.Month {
		return false
	}
	if s := strings.TrimSpace(f.Status); s != "" && !strings.EqualFold(string(h.Status), s) {
		return false
	}
	return true
}

// Repository persists schedules. Get, Update and Delete return
// apperr.ErrNotFound for unknown ids.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Harmonogram, error)
	Get(ctx context.Context, id int64) (Harmonogram, error)
	Create(ctx context.Context, h Harmonogram) (Harmonogram, error)
	Update(ctx context.Context, h Harmonogram) (Harmonogram, error)
	Delete(ctx context.Context, id int64) error
}

// References resolves machines and persons named in a payload.
type References interface {
	ResolveMachine(ctx context.Context, id int64) (org.Machine, error)
	ResolvePerson(ctx context.Context, id int64) (org.Person, error)
}
