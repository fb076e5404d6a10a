package ticket

import "strings"

// Status is the lifecycle state of a ticket.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusOnHold     Status = "ON_HOLD"
	StatusDone       Status = "DONE"
	StatusRejected   Status = "REJECTED"
)

// Priority is the urgency of a ticket.
type Priority string

const (
	PriorityLow      Priority = "NISKI"
	PriorityNormal   Priority = "NORMALNY"
	PriorityHigh     Priority = "WYSOKI"
	PriorityCritical Priority = "KRYTYCZNY"
)

// Localized and English tokens, keyed by their folded form.
var statusSynonyms = map[string]Status{
	"NEW":          StatusNew,
	"NOWE":         StatusNew,
	"NOWY":         StatusNew,
	"PLANNED":      StatusNew,
	"PLANOWANE":    StatusNew,
	"OPEN":         StatusOpen,
	"OTWARTE":      StatusOpen,
	"OTWARTY":      StatusOpen,
	"IN_PROGRESS":  StatusInProgress,
	"W_TOKU":       StatusInProgress,
	"W_TRAKCIE":    StatusInProgress,
	"W_REALIZACJI": StatusInProgress,
	"ON_HOLD":      StatusOnHold,
	"WSTRZYMANE":   StatusOnHold,
	"DONE":         StatusDone,
	"CLOSED":       StatusDone,
	"RESOLVED":     StatusDone,
	"ZAKONCZONE":   StatusDone,
	"ZAMKNIETE":    StatusDone,
	"REJECTED":     StatusRejected,
	"CANCELLED":    StatusRejected,
	"ODRZUCONE":    StatusRejected,
	"ANULOWANE":    StatusRejected,
}

var prioritySynonyms = map[string]Priority{
	"NISKI":     PriorityLow,
	"LOW":       PriorityLow,
	"NORMALNY":  PriorityNormal,
	"NORMAL":    PriorityNormal,
	"WYSOKI":    PriorityHigh,
	"HIGH":      PriorityHigh,
	"KRYTYCZNY": PriorityCritical,
	"CRITICAL":  PriorityCritical,
}

var (
	allStatuses   = []Status{StatusNew, StatusOpen, StatusInProgress, StatusOnHold, StatusDone, StatusRejected}
	allPriorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical}
)

var foldReplacer = strings.NewReplacer(
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
	" ", "_", "-", "_",
)

func fold(raw string) string {
	return foldReplacer.Replace(strings.ToUpper(strings.TrimSpace(raw)))
}

// ParseStatus maps a free-text token to a Status. The second result is
// false for blank or unknown input.
func ParseStatus(raw string) (Status, bool) {
	key := fold(raw)
	if key == "" {
		return "", false
	}
	if s, ok := statusSynonyms[key]; ok {
		return s, true
	}
	for _, s := range allStatuses {
		if string(s) == key {
			return s, true
		}
	}
	return "", false
}

// ParsePriority maps a free-text token to a Priority.
func ParsePriority(raw string) (Priority, bool) {
	key := fold(raw)
	if key == "" {
		return "", false
	}
	if p, ok := prioritySynonyms[key]; ok {
		return p, true
	}
	for _, p := range allPriorities {
		if string(p) == key {
			return p, true
		}
	}
	return "", false
}

// The policies below differ by call site on purpose and stay separate.

// StatusFilter: unknown input means no status filter.
func StatusFilter(raw string) *Status {
	s, ok := ParseStatus(raw)
	if !ok {
		return nil
	}
	return &s
}

// PriorityFilter: unknown input means no priority filter.
func PriorityFilter(raw string) *Priority {
	p, ok := ParsePriority(raw)
	if !ok {
		return nil
	}
	return &p
}

// StatusForCreate: unknown or absent input falls back to StatusNew.
func StatusForCreate(raw string) Status {
	if s, ok := ParseStatus(raw); ok {
		return s
	}
	return StatusNew
}

// StatusForUpdate: unknown input keeps the current status.
func StatusForUpdate(raw string, current Status) Status {
	if s, ok := ParseStatus(raw); ok {
		return s
	}
	return current
}

// PriorityForCreate: unknown or absent input falls back to PriorityNormal.
func PriorityForCreate(raw string) Priority {
	if p, ok := ParsePriority(raw); ok {
		return p
	}
	return PriorityNormal
}

// PriorityForUpdate: unknown input keeps the current priority.
func PriorityForUpdate(raw string, current Priority) Priority {
	if p, ok := ParsePriority(raw); ok {
		return p
	}
	return current
}
