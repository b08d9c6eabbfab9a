package eventlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{
		DBPath: filepath.Join(t.TempDir(), "eventlog.db"),
	})
	if err != nil {
		t.Fatalf("NewStore() error = %v, want nil", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_EmptyPath(t *testing.T) {
	if _, err := NewStore(StoreConfig{}); err == nil {
		t.Error("NewStore(empty path) error = nil, want error")
	}
}

func TestStore_AppendAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.Append(ctx, Record{
		Path:       "/etc/hosts",
		Operation:  "write",
		PolicyName: "hosts",
		Decision:   "deny",
		BinaryPath: "/usr/bin/vim",
		TeamID:     "EQHXZ8M8AV",
	})
	if err != nil {
		t.Fatalf("Append() error = %v, want nil", err)
	}
	if rec.ID == "" {
		t.Error("Append() did not assign an ID")
	}
	if rec.Timestamp.IsZero() {
		t.Error("Append() did not assign a timestamp")
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v, want nil", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(Recent()) = %d, want 1", len(records))
	}

	got := records[0]
	if got.ID != rec.ID || got.Path != "/etc/hosts" || got.Decision != "deny" ||
		got.PolicyName != "hosts" || got.BinaryPath != "/usr/bin/vim" || got.TeamID != "EQHXZ8M8AV" {
		t.Errorf("Recent()[0] = %+v, want stored record %+v", got, rec)
	}
}

func TestStore_RecentOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		_, err := store.Append(ctx, Record{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Path:      "/etc/hosts",
			Operation: "write",
			Decision:  "allow_audit",
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	records, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(Recent(3)) = %d, want 3", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.After(records[i-1].Timestamp) {
			t.Error("Recent() records not in newest-first order")
		}
	}
}

func TestStore_Count(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Append(ctx, Record{Path: "/x", Operation: "write", Decision: "allow"}); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestPruner_AgeBased(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Two old records, one fresh.
	for _, age := range []time.Duration{100 * 24 * time.Hour, 95 * 24 * time.Hour, time.Hour} {
		_, err := store.Append(ctx, Record{
			Timestamp: now.Add(-age),
			Path:      "/x",
			Operation: "write",
			Decision:  "allow",
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	pruner := NewPruner(store, 90, 0, nil)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted = %d, want 2", deleted)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Count() after prune = %d, want 1", count)
	}
}

func TestPruner_CountBased(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 10; i++ {
		_, err := store.Append(ctx, Record{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Path:      "/x",
			Operation: "write",
			Decision:  "allow",
		})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	pruner := NewPruner(store, 0, 4, nil)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 6 {
		t.Errorf("Prune() deleted = %d, want 6", deleted)
	}

	// The newest records survive.
	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("len(Recent()) = %d, want 4", len(records))
	}
	if records[0].Timestamp.Before(records[len(records)-1].Timestamp) {
		t.Error("trim removed the wrong end of the log")
	}
}

func TestPruner_Disabled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, Record{Path: "/x", Operation: "write", Decision: "allow"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	pruner := NewPruner(store, 0, 0, nil)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted = %d, want 0", deleted)
	}
}
