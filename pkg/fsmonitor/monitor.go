package fsmonitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/callisto/pkg/authorizer"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/watchitems"
)

// Event is one intercepted filesystem event.
type Event struct {
	// Path is the affected file path.
	Path string

	// Op classifies the event.
	Op authorizer.Operation
}

// Handler consumes intercepted events.
type Handler func(event Event)

// Monitor owns an fsnotify watcher whose watch set mirrors the watch-item
// engine's monitored paths.
type Monitor struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	metrics *metrics.Collector

	mu      sync.Mutex
	watched map[string]struct{}
	running bool
}

// New creates a monitor. The logger and collector may be nil.
func New(logger *slog.Logger, collector *metrics.Collector) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		watcher: watcher,
		logger:  logger.With("component", "fsmonitor"),
		metrics: collector,
		watched: make(map[string]struct{}),
	}, nil
}

// Run registers the engine's current monitored paths, then loops:
// re-syncing the watch set whenever a reload publishes a new snapshot, and
// forwarding write-class events to the handler. It blocks until the
// context is cancelled.
func (m *Monitor) Run(ctx context.Context, items *watchitems.WatchItems, handle Handler) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	m.syncPaths(items.MonitoredPaths())

	m.logger.Info("filesystem monitor started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("filesystem monitor stopped")
			return nil

		case outcome := <-items.Outcomes():
			if outcome.Changed {
				m.syncPaths(items.MonitoredPaths())
			}

		case event, ok := <-m.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			op, relevant := mapOp(event.Op)
			if !relevant {
				continue
			}
			handle(Event{Path: event.Name, Op: op})

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep monitoring despite transient errors.
			m.logger.Error("filesystem watcher error", "error", err)
		}
	}
}

// Close releases the underlying watcher.
func (m *Monitor) Close() error {
	return m.watcher.Close()
}

// WatchedPaths returns the currently registered paths, sorted.
func (m *Monitor) WatchedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	paths := make([]string, 0, len(m.watched))
	for path := range m.watched {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// syncPaths makes the fsnotify watch set exactly match paths. Paths that
// cannot be registered (typically: they do not exist yet) are logged and
// skipped; the next changed snapshot retries them.
func (m *Monitor) syncPaths(paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		want[path] = struct{}{}
	}

	for path := range m.watched {
		if _, keep := want[path]; !keep {
			if err := m.watcher.Remove(path); err != nil {
				m.logger.Debug("failed to remove watch", "path", path, "error", err)
			}
			delete(m.watched, path)
		}
	}

	for path := range want {
		if _, have := m.watched[path]; have {
			continue
		}
		if err := m.watcher.Add(path); err != nil {
			m.logger.Warn("failed to register watch", "path", path, "error", err)
			continue
		}
		m.watched[path] = struct{}{}
	}

	m.metrics.SetWatchedPaths(len(m.watched))
	m.logger.Info("watch set synchronized", "watched_paths", len(m.watched))
}

// mapOp translates an fsnotify op into the authorizer's operation
// taxonomy. Chmod-only events are not write-class and are dropped.
func mapOp(op fsnotify.Op) (authorizer.Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return authorizer.OpCreate, true
	case op.Has(fsnotify.Write):
		return authorizer.OpWrite, true
	case op.Has(fsnotify.Remove):
		return authorizer.OpRemove, true
	case op.Has(fsnotify.Rename):
		return authorizer.OpRename, true
	}
	return "", false
}
