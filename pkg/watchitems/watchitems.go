package watchitems

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"mercator-hq/callisto/pkg/pathtree"
	"mercator-hq/callisto/pkg/telemetry/metrics"
)

// Snapshot is one immutable generation of the policy engine's state: the
// built path tree, the monitored path set, and the raw configuration bytes
// it was built from. The three fields are published as one unit, so any
// combination of reads against a single Snapshot is torn-read-free.
type Snapshot struct {
	generation     uint64
	tree           *pathtree.Tree[*Policy]
	monitoredPaths []string
	rawConfig      []byte
}

// Generation returns the snapshot's generation counter. Generations start
// at 1 and increase by 1 per published reload.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// FindPolicy returns the most specific policy matching path, or nil when
// nothing matches. The walk needs no synchronization: the tree is immutable
// once the snapshot is published.
func (s *Snapshot) FindPolicy(path string) *Policy {
	policy, ok := s.tree.LongestMatch(path)
	if !ok {
		return nil
	}
	return policy
}

// MonitoredPaths returns a copy of the snapshot's sorted distinct policy
// paths.
func (s *Snapshot) MonitoredPaths() []string {
	paths := make([]string, len(s.monitoredPaths))
	copy(paths, s.monitoredPaths)
	return paths
}

// PolicyCount returns the number of entries in the snapshot's tree.
func (s *Snapshot) PolicyCount() int {
	return s.tree.Len()
}

// ReloadOutcome is the per-cycle completion signal published on the
// controller's Outcomes channel, exactly once per finished reload cycle.
type ReloadOutcome struct {
	// Generation is the active snapshot generation after the cycle,
	// zero if no snapshot has ever been published.
	Generation uint64

	// Changed reports whether the cycle published a new snapshot.
	Changed bool

	// Err holds the cycle's failure, nil on success or no-op.
	Err error
}

// ReloadStatus describes the most recently finished reload cycle.
type ReloadStatus struct {
	// At is when the cycle finished.
	At time.Time

	// Duration is how long the cycle took.
	Duration time.Duration

	// Changed reports whether the cycle published a new snapshot.
	Changed bool

	// Err holds the cycle's failure, nil on success or no-op.
	Err error
}

// WatchItems is the watch-item policy engine controller. It owns the
// active snapshot, runs the periodic reload task, and answers lookups.
//
// Concurrency model: one background goroutine runs reload cycles strictly
// serially. Any number of goroutines may call FindPolicyForPath and the
// snapshot accessors concurrently. The single mutex guards only the swap
// and read of the snapshot reference; it is never held during file I/O,
// parsing, building, or tree traversal.
type WatchItems struct {
	configPath string
	interval   time.Duration
	logger     *slog.Logger
	metrics    *metrics.Collector

	// mu guards current only. Held just long enough to copy or replace
	// the snapshot reference.
	mu      sync.Mutex
	current *Snapshot

	// statusMu guards lastStatus.
	statusMu   sync.Mutex
	lastStatus *ReloadStatus

	// startMu guards the periodic task lifecycle.
	startMu sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	outcomes chan ReloadOutcome
}

// New creates a controller bound to a configuration source and reload
// cadence. No I/O happens until BeginPeriodicTask. The logger and
// collector may be nil.
func New(configPath string, reloadInterval time.Duration, logger *slog.Logger, collector *metrics.Collector) (*WatchItems, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	if reloadInterval <= 0 {
		return nil, fmt.Errorf("reload interval must be positive, got %s", reloadInterval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &WatchItems{
		configPath: configPath,
		interval:   reloadInterval,
		logger:     logger.With("component", "watchitems"),
		metrics:    collector,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
		outcomes:   make(chan ReloadOutcome, 16),
	}, nil
}

// BeginPeriodicTask starts the reload task: one immediate cycle, then one
// per reload interval, all on a single goroutine so cycles never overlap.
// If a cycle runs longer than the interval, intervening ticks are dropped
// and the next cycle starts after the running one completes. Calling
// BeginPeriodicTask again is a no-op.
func (w *WatchItems) BeginPeriodicTask() {
	w.startMu.Lock()
	defer w.startMu.Unlock()

	if w.started {
		return
	}
	w.started = true

	go func() {
		defer close(w.doneCh)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.runCycle()
		for {
			select {
			case <-w.stopCh:
				return
			case <-ticker.C:
				w.runCycle()
			}
		}
	}()

	w.logger.Info("periodic reload task started",
		"config_path", w.configPath,
		"interval", w.interval,
	)
}

// Stop terminates the periodic task. When Stop returns, no further reload
// cycle will run. Stop is idempotent; stopping a never-started controller
// is a no-op.
func (w *WatchItems) Stop() {
	w.startMu.Lock()
	defer w.startMu.Unlock()

	if !w.started || w.stopped {
		return
	}
	w.stopped = true

	close(w.stopCh)
	<-w.doneCh

	w.logger.Info("periodic reload task stopped")
}

// Outcomes returns the channel carrying one ReloadOutcome per completed
// reload cycle. The channel is buffered and sends are non-blocking: a slow
// or absent consumer loses outcomes, never stalls reloads.
func (w *WatchItems) Outcomes() <-chan ReloadOutcome {
	return w.outcomes
}

// FindPolicyForPath returns the most specific policy matching path, or nil
// when no policy matches or no snapshot has been published yet. It never
// returns an error: the hot path must be unconditionally available. The
// returned policy remains valid even if a reload publishes a newer
// snapshot concurrently.
func (w *WatchItems) FindPolicyForPath(path string) *Policy {
	w.mu.Lock()
	snap := w.current
	w.mu.Unlock()

	if snap == nil {
		w.metrics.RecordLookup(false)
		return nil
	}

	policy := snap.FindPolicy(path)
	w.metrics.RecordLookup(policy != nil)
	return policy
}

// CurrentSnapshot returns the active snapshot, or nil before the first
// successful reload. Callers needing a coherent view across multiple reads
// (e.g. a policy and the monitored paths of the same generation) should
// take one snapshot and read everything from it.
func (w *WatchItems) CurrentSnapshot() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// MonitoredPaths returns the active snapshot's monitored path set, or nil
// before the first successful reload.
func (w *WatchItems) MonitoredPaths() []string {
	snap := w.CurrentSnapshot()
	if snap == nil {
		return nil
	}
	return snap.MonitoredPaths()
}

// Generation returns the active snapshot generation, zero before the first
// successful reload.
func (w *WatchItems) Generation() uint64 {
	snap := w.CurrentSnapshot()
	if snap == nil {
		return 0
	}
	return snap.Generation()
}

// LastReload returns the most recently finished reload cycle's status, or
// (zero, false) before the first cycle completes.
func (w *WatchItems) LastReload() (ReloadStatus, bool) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	if w.lastStatus == nil {
		return ReloadStatus{}, false
	}
	return *w.lastStatus, true
}

// runCycle executes one reload cycle and publishes its completion signal.
// Only the periodic task goroutine calls this.
func (w *WatchItems) runCycle() {
	start := time.Now()
	outcome := w.reloadConfig()
	duration := time.Since(start)

	w.statusMu.Lock()
	w.lastStatus = &ReloadStatus{
		At:       time.Now(),
		Duration: duration,
		Changed:  outcome.Changed,
		Err:      outcome.Err,
	}
	w.statusMu.Unlock()

	w.metrics.RecordReload(reloadResultLabel(outcome), duration)

	switch {
	case outcome.Err != nil:
		w.logger.Error("reload failed, keeping previous snapshot",
			"error", outcome.Err,
			"generation", outcome.Generation,
			"duration_ms", duration.Milliseconds(),
		)
	case outcome.Changed:
		w.logger.Info("published new snapshot",
			"generation", outcome.Generation,
			"duration_ms", duration.Milliseconds(),
		)
	default:
		w.logger.Debug("config unchanged",
			"generation", outcome.Generation,
		)
	}

	// Completion signal: non-blocking so a missing consumer cannot stall
	// the reload cadence.
	select {
	case w.outcomes <- outcome:
	default:
	}
}

// reloadConfig reads, validates, and builds the configuration, then swaps
// the snapshot if the raw bytes changed. All failure modes leave the
// current snapshot in place.
func (w *WatchItems) reloadConfig() ReloadOutcome {
	raw, err := os.ReadFile(w.configPath)
	if err != nil {
		return w.failedOutcome(&ConfigError{Path: w.configPath, Op: ConfigOpRead, Cause: err})
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return w.failedOutcome(&ConfigError{Path: w.configPath, Op: ConfigOpDecode, Cause: err})
	}

	policies, err := ParsePolicies(doc)
	if err != nil {
		return w.failedOutcome(err)
	}

	tree, paths, err := BuildTree(policies)
	if err != nil {
		return w.failedOutcome(err)
	}

	return w.setCurrentConfig(tree, paths, raw)
}

// failedOutcome builds the outcome for a failed cycle, reporting the
// generation that remains active.
func (w *WatchItems) failedOutcome(err error) ReloadOutcome {
	return ReloadOutcome{Generation: w.Generation(), Err: err}
}

// setCurrentConfig publishes a new snapshot unless the raw configuration
// is byte-identical to the active one, in which case the active snapshot
// is retained to avoid churn and redundant downstream notifications.
func (w *WatchItems) setCurrentConfig(tree *pathtree.Tree[*Policy], paths []string, raw []byte) ReloadOutcome {
	w.mu.Lock()
	if w.current != nil && bytes.Equal(w.current.rawConfig, raw) {
		generation := w.current.generation
		w.mu.Unlock()
		return ReloadOutcome{Generation: generation}
	}

	var generation uint64 = 1
	if w.current != nil {
		generation = w.current.generation + 1
	}
	w.current = &Snapshot{
		generation:     generation,
		tree:           tree,
		monitoredPaths: paths,
		rawConfig:      raw,
	}
	w.mu.Unlock()

	w.metrics.SetSnapshot(generation, len(paths))
	return ReloadOutcome{Generation: generation, Changed: true}
}

// reloadResultLabel maps a cycle outcome onto its metrics label.
func reloadResultLabel(outcome ReloadOutcome) string {
	if outcome.Err == nil {
		if outcome.Changed {
			return metrics.ReloadResultSuccess
		}
		return metrics.ReloadResultUnchanged
	}

	var configErr *ConfigError
	if errors.As(outcome.Err, &configErr) {
		if configErr.Op == ConfigOpRead {
			return metrics.ReloadResultUnreadable
		}
		return metrics.ReloadResultMalformed
	}

	var dupErr *DuplicatePathError
	if errors.As(outcome.Err, &dupErr) {
		return metrics.ReloadResultDuplicate
	}

	return metrics.ReloadResultInvalid
}
