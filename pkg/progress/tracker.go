package progress

import (
	"sync"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultInterval is how often subscribed listeners receive a snapshot.
const DefaultInterval = 5 * time.Second

// Listener receives periodic build-progress snapshots. Returning an error
// removes the listener; returning Done() is the clean way for a listener to
// deregister itself.
type Listener interface {
	Notify(snapshot types.BuildProgress) error
}

// errDone is the sentinel, obtained through Done, that a listener returns
// when it has finished (for example because its client cancelled the
// stream) and wants to be removed.
var errDone = doneError{}

type doneError struct{}

func (doneError) Error() string { return "listener done" }

// Done returns the sentinel a listener reports to deregister itself cleanly.
func Done() error { return errDone }

// Tracker broadcasts the progress of the build occupying the build worker to
// any number of subscribed listeners, on a fixed tick.
type Tracker struct {
	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
	current   types.BuildProgress
	building  bool

	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   zerolog.Logger
}

// NewTracker creates a tracker. A zero interval selects DefaultInterval.
func NewTracker(interval time.Duration) *Tracker {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		listeners: make(map[int]Listener),
		interval:  interval,
		stopCh:    make(chan struct{}),
		logger:    log.WithComponent("progress"),
	}
}

// Start begins the broadcast loop.
func (t *Tracker) Start() {
	go t.run()
}

// Stop stops the broadcast loop.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

// Subscribe registers a listener and returns its id for Unsubscribe.
func (t *Tracker) Subscribe(l Listener) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.listeners[id] = l
	return id
}

// Unsubscribe removes a listener.
func (t *Tracker) Unsubscribe(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.listeners, id)
}

// Begin records that a build started for the named index.
func (t *Tracker) Begin(index string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = types.BuildProgress{IndexName: index}
	t.building = true
}

// Phase appends a new build phase at zero completion.
func (t *Tracker) Phase(name string, params ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.building {
		return
	}
	t.current.Phases = append(t.current.Phases, types.BuildPhase{
		Name:       name,
		Parameters: params,
	})
}

// Update sets the completion percentage of the current phase.
func (t *Tracker) Update(completion float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.building || len(t.current.Phases) == 0 {
		return
	}
	if completion < 0 {
		completion = 0
	}
	if completion > 100 {
		completion = 100
	}
	t.current.Phases[len(t.current.Phases)-1].Completion = completion
}

// End records that the build for the named index finished.
func (t *Tracker) End(index string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current.IndexName == index {
		t.current = types.BuildProgress{}
		t.building = false
	}
}

// Snapshot returns a copy of the current progress. The snapshot is empty
// when no build is running.
func (t *Tracker) Snapshot() types.BuildProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.copySnapshotLocked()
}

func (t *Tracker) copySnapshotLocked() types.BuildProgress {
	snapshot := types.BuildProgress{IndexName: t.current.IndexName}
	if len(t.current.Phases) > 0 {
		snapshot.Phases = make([]types.BuildPhase, len(t.current.Phases))
		copy(snapshot.Phases, t.current.Phases)
	}
	return snapshot
}

func (t *Tracker) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.broadcast()
		case <-t.stopCh:
			return
		}
	}
}

func (t *Tracker) broadcast() {
	t.mu.Lock()
	snapshot := t.copySnapshotLocked()
	targets := make(map[int]Listener, len(t.listeners))
	for id, l := range t.listeners {
		targets[id] = l
	}
	t.mu.Unlock()

	for id, l := range targets {
		if err := l.Notify(snapshot); err != nil {
			if err != errDone {
				t.logger.Debug().Err(err).Int("listener", id).Msg("Removing failed progress listener")
			}
			t.Unsubscribe(id)
		}
	}
}
