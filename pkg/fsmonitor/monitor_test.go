package fsmonitor

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/callisto/pkg/authorizer"
	"mercator-hq/callisto/pkg/watchitems"
)

func TestMapOp(t *testing.T) {
	cases := []struct {
		op       fsnotify.Op
		want     authorizer.Operation
		relevant bool
	}{
		{fsnotify.Write, authorizer.OpWrite, true},
		{fsnotify.Create, authorizer.OpCreate, true},
		{fsnotify.Remove, authorizer.OpRemove, true},
		{fsnotify.Rename, authorizer.OpRename, true},
		{fsnotify.Chmod, "", false},
	}

	for _, tc := range cases {
		got, relevant := mapOp(tc.op)
		if got != tc.want || relevant != tc.relevant {
			t.Errorf("mapOp(%v) = (%q, %v), want (%q, %v)", tc.op, got, relevant, tc.want, tc.relevant)
		}
	}
}

func TestMonitor_SyncPaths(t *testing.T) {
	m, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	dirA := t.TempDir()
	dirB := t.TempDir()

	m.syncPaths([]string{dirA, dirB})
	want := []string{dirA, dirB}
	if dirB < dirA {
		want = []string{dirB, dirA}
	}
	if got := m.WatchedPaths(); !reflect.DeepEqual(got, want) {
		t.Errorf("WatchedPaths() = %v, want %v", got, want)
	}

	// Dropping a path from the set removes its watch.
	m.syncPaths([]string{dirA})
	if got := m.WatchedPaths(); !reflect.DeepEqual(got, []string{dirA}) {
		t.Errorf("WatchedPaths() after removal = %v, want [%s]", got, dirA)
	}

	// Nonexistent paths are skipped, not fatal.
	m.syncPaths([]string{dirA, filepath.Join(dirA, "does-not-exist")})
	if got := m.WatchedPaths(); !reflect.DeepEqual(got, []string{dirA}) {
		t.Errorf("WatchedPaths() with missing path = %v, want [%s]", got, dirA)
	}
}

func TestMonitor_ForwardsEvents(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "watchitems.yaml")
	watchedDir := filepath.Join(dir, "watched")
	if err := os.Mkdir(watchedDir, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	doc := "watched:\n  Path: " + watchedDir + "\n  IsPrefix: true\n"
	if err := os.WriteFile(configPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	items, err := watchitems.New(configPath, 25*time.Millisecond, nil, nil)
	if err != nil {
		t.Fatalf("watchitems.New() error = %v", err)
	}
	items.BeginPeriodicTask()
	defer items.Stop()

	m, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	events := make(chan Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx, items, func(e Event) { events <- e })
	}()

	// Wait until the monitor picks up the watch set from the first
	// changed snapshot.
	deadline := time.After(5 * time.Second)
	for len(m.WatchedPaths()) == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for watch registration")
		case <-time.After(10 * time.Millisecond):
		}
	}

	target := filepath.Join(watchedDir, "file.txt")
	if err := os.WriteFile(target, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case e := <-events:
		if e.Path != target {
			t.Errorf("event path = %q, want %q", e.Path, target)
		}
		if !e.Op.IsWrite() {
			t.Errorf("event op = %q, want write-class", e.Op)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for filesystem event")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor did not stop on context cancellation")
	}
}
