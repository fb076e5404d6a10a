package audit

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"drimer.pl/drimain/internal/auth"
)

func TestEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := New(zap.New(core))

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = auth.ContextWithIdentity(ctx, auth.Identity{UserID: 42, Username: "ola", Roles: auth.Roles{auth.RoleBiuro}})

	if err := l.Event(ctx, "ticket.delete", map[string]any{"id": int64(7)}); err != nil {
		t.Fatalf("Event failed: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["type"] != "audit" || fields["event"] != "ticket.delete" {
		t.Fatalf("unexpected entry: %v", fields)
	}
	if fields["request_id"] != "req-123" {
		t.Fatalf("unexpected request id: %v", fields["request_id"])
	}
	if fields["actor"] != "ola" {
		t.Fatalf("unexpected actor: %v", fields["actor"])
	}
	if fields["audit_id"] == "" {
		t.Fatal("expected audit id")
	}
	payload, ok := fields["fields"].(map[string]any)
	if !ok || payload["id"] != int64(7) {
		t.Fatalf("fields missing or incorrect: %v", fields["fields"])
	}
}

func TestEventRequiresName(t *testing.T) {
	if err := New(nil).Event(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected error for empty event name")
	}
}
