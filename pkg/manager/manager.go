package manager

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/catalog"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/config"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/gate"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/index"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/memory"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/metrics"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/progress"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// drainRetry is how often shutdown re-attempts the drain barrier and how
// long a search-mode swap waits for it. A variable so tests can shrink it.
var drainRetry = 5 * time.Second

// Mode is the capability set shared by the two service modes. Exactly one
// mode is active at a time; swaps happen behind the drain barrier.
type Mode interface {
	Kind() config.Mode
	CreateIndex(ctx context.Context, name string, distance types.Distance) error
	TriggerBuild(name string) error
	NewUploadSession() (*UploadSession, error)
	SubscribeBuildStatus(listener progress.Listener) (int, error)
	FindNearestNeighbours(ctx context.Context, name string, k int, query []float32) ([][]byte, error)
	DropIndex(name string) error
	Shutdown()
}

// Manager is the index manager: the control plane owning every index on the
// node, the active service mode, and the drain barrier that serializes mode
// swaps and shutdown against client operations.
type Manager struct {
	cfg     *config.Config
	budgets memory.Budgets
	catalog *catalog.Catalog
	gate    *gate.Gate
	tracker *progress.Tracker
	builder index.Builder
	logger  zerolog.Logger

	modeLock sync.Mutex
	mode     atomic.Value // modeHolder

	closed atomic.Bool
}

// modeHolder keeps atomic.Value's stored type consistent across the two
// mode implementations.
type modeHolder struct {
	mode Mode
}

// Config holds everything needed to construct a Manager.
type Config struct {
	Config  *config.Config
	Budgets memory.Budgets

	// Builder overrides the default flat builder; used by tests.
	Builder index.Builder

	// ProgressInterval overrides the broadcast tick; zero keeps the default.
	ProgressInterval time.Duration
}

// NewManager ensures the on-disk tree exists, reconciles the catalog from
// it, and starts in the configured default mode.
func NewManager(cfg *Config) (*Manager, error) {
	for _, dir := range []string{cfg.Config.IndexesDir(), cfg.Config.LogsDir(), cfg.Config.ConfigDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cat := catalog.New()
	if err := cat.Reconcile(cfg.Config.IndexesDir()); err != nil {
		return nil, fmt.Errorf("failed to reconcile indexes: %w", err)
	}

	builder := cfg.Builder
	if builder == nil {
		builder = index.NewFlatBuilder()
	}

	m := &Manager{
		cfg:     cfg.Config,
		budgets: cfg.Budgets,
		catalog: cat,
		gate:    gate.New(),
		tracker: progress.NewTracker(cfg.ProgressInterval),
		builder: builder,
		logger:  log.WithComponent("index-manager"),
	}
	m.tracker.Start()

	if cfg.Config.VectoriaDB.Server.DefaultMode == config.ModeSearch {
		m.mode.Store(modeHolder{mode: newSearchMode(m)})
	} else {
		m.mode.Store(modeHolder{mode: newBuildMode(m)})
	}
	metrics.SetMode(string(cfg.Config.VectoriaDB.Server.DefaultMode))

	return m, nil
}

func (m *Manager) currentMode() Mode {
	return m.mode.Load().(modeHolder).mode
}

// buildParams assembles the sizing parameters handed to builds and readers.
func (m *Manager) buildParams() index.BuildParams {
	idx := m.cfg.VectoriaDB.Index
	return index.BuildParams{
		Dimensions:              idx.Dimensions,
		MaxConnectionsPerVertex: idx.MaxConnectionsPerVertex,
		MaxCandidatesReturned:   idx.MaxCandidatesReturned,
		CompressionRatio:        idx.CompressionRatio,
		DistanceMultiplier:      idx.DistanceMultiplier,
		MaxMemoryBytes:          m.budgets.IndexBuilding,
	}
}

// errClosed is every post-shutdown caller's answer.
func errClosed() error {
	return status.Error(codes.Unavailable, "index manager is closed")
}

func errSwapInProgress() error {
	return status.Error(codes.Unavailable, "index manager is not accepting operations")
}

// do runs a client operation under one gate permit.
func (m *Manager) do(op func(Mode) error) error {
	if !m.gate.Enter() {
		return errSwapInProgress()
	}
	defer m.gate.Leave()

	if m.closed.Load() {
		return errClosed()
	}
	return op(m.currentMode())
}

// CreateIndex creates an empty index with the given distance metric.
func (m *Manager) CreateIndex(ctx context.Context, name string, distance types.Distance) error {
	return m.do(func(mode Mode) error {
		return mode.CreateIndex(ctx, name, distance)
	})
}

// TriggerBuild enqueues an index for the build worker.
func (m *Manager) TriggerBuild(name string) error {
	return m.do(func(mode Mode) error {
		return mode.TriggerBuild(name)
	})
}

// UploadSession opens a streaming upload session. The session holds its gate
// permit until Complete or Abort.
func (m *Manager) UploadSession() (*UploadSession, error) {
	if !m.gate.Enter() {
		return nil, errSwapInProgress()
	}
	if m.closed.Load() {
		m.gate.Leave()
		return nil, errClosed()
	}

	session, err := m.currentMode().NewUploadSession()
	if err != nil {
		m.gate.Leave()
		return nil, err
	}
	session.release = func() { m.gate.Leave() }
	return session, nil
}

// SubscribeBuildStatus registers a progress listener with the global
// tracker and returns its subscription id.
func (m *Manager) SubscribeBuildStatus(listener progress.Listener) (int, error) {
	var id int
	err := m.do(func(mode Mode) error {
		var err error
		id, err = mode.SubscribeBuildStatus(listener)
		return err
	})
	return id, err
}

// UnsubscribeBuildStatus removes a progress listener.
func (m *Manager) UnsubscribeBuildStatus(id int) {
	m.tracker.Unsubscribe(id)
}

// FindNearestNeighbours answers a k-NN query against a built index.
func (m *Manager) FindNearestNeighbours(ctx context.Context, name string, k int, query []float32) ([][]byte, error) {
	var ids [][]byte
	err := m.do(func(mode Mode) error {
		var err error
		ids, err = mode.FindNearestNeighbours(ctx, name, k, query)
		return err
	})
	return ids, err
}

// DropIndex removes an index and its on-disk directory.
func (m *Manager) DropIndex(name string) error {
	return m.do(func(mode Mode) error {
		return mode.DropIndex(name)
	})
}

// RetrieveIndexState reports the current state of an index.
func (m *Manager) RetrieveIndexState(name string) (types.IndexState, error) {
	var state types.IndexState
	err := m.do(func(Mode) error {
		s, ok := m.catalog.State(name)
		if !ok {
			return status.Errorf(codes.NotFound, "index %q does not exist", name)
		}
		state = s
		return nil
	})
	return state, err
}

// ListIndexes returns the sorted names of every index except BROKEN ones.
func (m *Manager) ListIndexes() ([]string, error) {
	var names []string
	err := m.do(func(Mode) error {
		names = m.catalog.ListNames(types.IndexStateBroken)
		return nil
	})
	return names, err
}

// SwitchToBuildMode swaps the service into build mode. The drain is taken
// without waiting: if any operation is in flight the swap is refused.
func (m *Manager) SwitchToBuildMode() error {
	return m.switchMode(config.ModeBuild)
}

// SwitchToSearchMode swaps the service into search mode, waiting up to the
// drain deadline for in-flight operations to finish.
func (m *Manager) SwitchToSearchMode() error {
	return m.switchMode(config.ModeSearch)
}

func (m *Manager) switchMode(target config.Mode) error {
	m.modeLock.Lock()
	defer m.modeLock.Unlock()

	if m.closed.Load() {
		return errClosed()
	}
	if m.currentMode().Kind() == target {
		return nil
	}

	var drained bool
	if target == config.ModeSearch {
		drained = m.gate.DrainWithin(drainRetry)
	} else {
		drained = m.gate.TryDrain()
	}
	if !drained {
		return status.Errorf(codes.Unavailable, "cannot switch to %s mode: operations in flight", target)
	}
	defer m.gate.Release()

	if m.closed.Load() {
		return errClosed()
	}

	m.logger.Info().Str("mode", string(target)).Msg("Switching service mode")
	m.currentMode().Shutdown()

	if target == config.ModeSearch {
		m.mode.Store(modeHolder{mode: newSearchMode(m)})
	} else {
		m.mode.Store(modeHolder{mode: newBuildMode(m)})
	}
	metrics.SetMode(string(target))
	return nil
}

// Close drains in-flight operations, retrying for as long as it takes, and
// shuts the service down. Every later operation fails unavailable.
func (m *Manager) Close() {
	m.modeLock.Lock()
	defer m.modeLock.Unlock()

	if m.closed.Load() {
		return
	}

	m.gate.DrainForever(drainRetry)
	defer m.gate.Release()

	m.closed.Store(true)
	m.currentMode().Shutdown()
	m.tracker.Stop()
	m.logger.Info().Msg("Index manager closed")
}

// Catalog exposes the catalog for metrics collection.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}
