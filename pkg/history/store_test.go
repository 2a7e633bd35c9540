package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, model := range []string{"llama3", "mistral", "phi3"} {
		_, err := s.Record(ctx, Entry{
			Kind:      "pull",
			Model:     model,
			Endpoint:  "http://localhost:11434",
			Outcome:   "complete",
			Records:   i + 1,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	// Most recent first.
	if entries[0].Model != "phi3" || entries[2].Model != "llama3" {
		t.Errorf("order = [%s %s %s], want most recent first",
			entries[0].Model, entries[1].Model, entries[2].Model)
	}
	if entries[0].ID == "" {
		t.Error("expected a generated id")
	}
	if !entries[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("started_at = %v, want %v", entries[0].StartedAt, base.Add(2*time.Minute))
	}
}

func TestStore_RecentRespectsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, Entry{
			Kind:      "update",
			Model:     "llama3",
			Endpoint:  "http://localhost:11434",
			Outcome:   "failed",
			Error:     "connection refused",
			StartedAt: time.Now().Add(time.Duration(i) * time.Second),
			EndedAt:   time.Now(),
		})
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	entries, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
	if entries[0].Error != "connection refused" {
		t.Errorf("error = %q, want recorded cause", entries[0].Error)
	}
}

func TestStore_EmptyHistory(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
