package ticket

import "testing"

func TestParseStatusSynonyms(t *testing.T) {
	cases := map[string]Status{
		"OPEN":        StatusOpen,
		"open":        StatusOpen,
		"Otwarte":     StatusOpen,
		"w toku":      StatusInProgress,
		"in-progress": StatusInProgress,
		"zakończone":  StatusDone,
		"CLOSED":      StatusDone,
		"planowane":   StatusNew,
		"ON_HOLD":     StatusOnHold,
		"anulowane":   StatusRejected,
	}
	for raw, want := range cases {
		got, ok := ParseStatus(raw)
		if !ok || got != want {
			t.Fatalf("ParseStatus(%q)=%q,%v want %q", raw, got, ok, want)
		}
	}
	for _, raw := range []string{"", "  ", "whatever"} {
		if _, ok := ParseStatus(raw); ok {
			t.Fatalf("ParseStatus(%q) should miss", raw)
		}
	}
}

func TestParsePriorityEquivalence(t *testing.T) {
	pairs := [][2]string{{"NISKI", "low"}, {"normalny", "NORMAL"}, {"WYSOKI", "High"}, {"krytyczny", "CRITICAL"}}
	for _, pair := range pairs {
		a, okA := ParsePriority(pair[0])
		b, okB := ParsePriority(pair[1])
		if !okA || !okB || a != b {
			t.Fatalf("%q and %q should map to the same priority: %q/%q", pair[0], pair[1], a, b)
		}
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Fatal("unknown priority should miss")
	}
}

func TestCallSitePolicies(t *testing.T) {
	if StatusFilter("bogus") != nil || PriorityFilter("bogus") != nil {
		t.Fatal("unknown filter tokens must mean no filter")
	}
	if s := StatusFilter("open"); s == nil || *s != StatusOpen {
		t.Fatalf("unexpected status filter: %v", s)
	}
	if got := StatusForCreate("bogus"); got != StatusNew {
		t.Fatalf("create fallback = %q, want %q", got, StatusNew)
	}
	if got := StatusForCreate(""); got != StatusNew {
		t.Fatalf("create default = %q, want %q", got, StatusNew)
	}
	if got := StatusForUpdate("bogus", StatusInProgress); got != StatusInProgress {
		t.Fatalf("update must keep current status, got %q", got)
	}
	if got := StatusForUpdate("done", StatusInProgress); got != StatusDone {
		t.Fatalf("update should apply known status, got %q", got)
	}
	if got := PriorityForCreate(""); got != PriorityNormal {
		t.Fatalf("priority default = %q", got)
	}
	if got := PriorityForUpdate("??", PriorityHigh); got != PriorityHigh {
		t.Fatalf("priority update must keep current, got %q", got)
	}
}
