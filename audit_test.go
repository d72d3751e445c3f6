package statetree

import (
	"errors"
	"testing"

	"github.com/goliatone/go-statetree/pkg/audit"
)

func TestWriteEmitsAuditEvent(t *testing.T) {
	capture := &audit.CaptureHook{}
	tree := New(WithAuditHooks(audit.Hooks{capture}))

	if _, err := tree.Write("name", "gopher"); err != nil {
		t.Fatalf("write: %v", err)
	}

	if len(capture.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != audit.VerbWrite {
		t.Fatalf("verb = %q, want %q", event.Verb, audit.VerbWrite)
	}
	if event.ObjectID != "name" || event.Metadata["field"] != "name" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Metadata["value"] != "gopher" {
		t.Fatalf("write events carry the value, got %v", event.Metadata["value"])
	}
	if event.ID == "" {
		t.Fatalf("events must carry a generated ID")
	}
}

func TestDeniedAccessEmitsAuditEvent(t *testing.T) {
	capture := &audit.CaptureHook{}
	tree := New(
		WithPermission("secret", PermissionNone),
		WithEntries(map[string]any{"secret": 1}),
		WithAuditHooks(audit.Hooks{capture}),
	)

	if _, err := tree.Read("secret"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected denial, got %v", err)
	}
	if _, err := tree.Write("secret", 2); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected denial, got %v", err)
	}

	denied := capture.ByVerb(audit.VerbDenied)
	if len(denied) != 2 {
		t.Fatalf("expected two denied events, got %d", len(denied))
	}
	if len(capture.ByVerb(audit.VerbWrite)) != 0 {
		t.Fatalf("denied writes must not emit write events")
	}
	for i, op := range []string{"read", "write"} {
		if denied[i].Metadata["op"] != op {
			t.Fatalf("event %d op = %v, want %q", i, denied[i].Metadata["op"], op)
		}
	}

	capture.Reset()
	if len(capture.Events) != 0 {
		t.Fatalf("reset must discard recorded events")
	}
}

func TestSuccessfulReadEmitsNothing(t *testing.T) {
	capture := &audit.CaptureHook{}
	tree := New(
		WithEntries(map[string]any{"name": "gopher"}),
		WithAuditHooks(audit.Hooks{capture}),
	)

	if _, err := tree.Read("name"); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("reads are pure queries and must not emit, got %d events", len(capture.Events))
	}
}
