package manager

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/catalog"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/config"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/metrics"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/progress"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// maxUploaders bounds the number of indexes with an upload in flight.
	maxUploaders = 64

	// buildQueueDepth bounds how many triggered builds may wait for the
	// single build worker.
	buildQueueDepth = 128
)

// BuildMode accepts index creation, vector uploads and build triggers.
// Queries are refused until the service swaps to search mode.
type BuildMode struct {
	mgr    *Manager
	logger zerolog.Logger

	indexCreationLock sync.Mutex

	uploaderLock sync.Mutex
	uploading    map[string]struct{}

	buildCh chan string
	stopCh  chan struct{}
	done    sync.WaitGroup
}

func newBuildMode(m *Manager) *BuildMode {
	b := &BuildMode{
		mgr:       m,
		logger:    log.WithComponent("build-mode"),
		uploading: make(map[string]struct{}),
		buildCh:   make(chan string, buildQueueDepth),
		stopCh:    make(chan struct{}),
	}
	b.done.Add(1)
	go b.buildWorker()
	return b
}

// Kind reports the mode selector for swap idempotence checks.
func (b *BuildMode) Kind() config.Mode {
	return config.ModeBuild
}

// CreateIndex creates the index directory and catalog entries. Creation is
// serialized so concurrent creates cannot race on the same name.
func (b *BuildMode) CreateIndex(ctx context.Context, name string, distance types.Distance) error {
	b.indexCreationLock.Lock()
	defer b.indexCreationLock.Unlock()

	cat := b.mgr.catalog
	if !cat.InsertIfAbsent(name, types.IndexStateCreating) {
		return status.Errorf(codes.AlreadyExists, "index %q already exists", name)
	}

	dir, err := filepath.Abs(filepath.Join(b.mgr.cfg.IndexesDir(), name))
	if err != nil {
		cat.Remove(name)
		return status.Errorf(codes.Internal, "failed to resolve index directory: %v", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		cat.Remove(name)
		return status.Errorf(codes.Internal, "failed to create index directory: %v", err)
	}

	fail := func(err error) error {
		cat.RemoveMetadata(name)
		cat.Remove(name)
		return status.Errorf(codes.Internal, "failed to create index %q: %v", name, err)
	}

	if err := catalog.WriteStatus(dir, types.IndexStateCreating); err != nil {
		return fail(err)
	}
	cat.PutMetadata(name, types.IndexMetadata{Distance: distance, Dir: dir})

	if !cat.CompareAndSet(name, types.IndexStateCreating, types.IndexStateCreated) {
		cat.MarkBrokenPersist(name)
		return status.Errorf(codes.Internal, "index %q left CREATING state during creation", name)
	}

	if err := catalog.WriteMetadata(dir, distance); err != nil {
		return fail(err)
	}
	if err := catalog.WriteStatus(dir, types.IndexStateCreated); err != nil {
		return fail(err)
	}

	b.logger.Info().Str("index", name).Str("distance", string(distance)).Msg("Index created")
	return nil
}

// TriggerBuild moves an index into the build queue. Only CREATED and
// UPLOADED indexes can be enqueued.
func (b *BuildMode) TriggerBuild(name string) error {
	cat := b.mgr.catalog
	if _, ok := cat.State(name); !ok {
		return status.Errorf(codes.NotFound, "index %q does not exist", name)
	}

	ok, observed := cat.CompareAndSetAny(name,
		[]types.IndexState{types.IndexStateCreated, types.IndexStateUploaded},
		types.IndexStateInBuildQueue)
	if !ok {
		return status.Errorf(codes.FailedPrecondition,
			"index %q cannot be built from state %s", name, observed)
	}

	if md, found := cat.Metadata(name); found {
		if err := catalog.WriteStatus(md.Dir, types.IndexStateInBuildQueue); err != nil {
			cat.MarkBrokenPersist(name)
			return status.Errorf(codes.Internal, "failed to persist build queue state: %v", err)
		}
	}

	select {
	case b.buildCh <- name:
	case <-b.stopCh:
		return errClosed()
	}

	b.logger.Info().Str("index", name).Msg("Index enqueued for build")
	return nil
}

// buildWorker is the dedicated single build thread: one build at a time,
// nothing else submits work to it.
func (b *BuildMode) buildWorker() {
	defer b.done.Done()

	for {
		select {
		case name := <-b.buildCh:
			b.runBuildTask(name)
		case <-b.stopCh:
			return
		}
	}
}

func (b *BuildMode) runBuildTask(name string) {
	// The permit covers the whole build so drains wait for it. A pending
	// drain refuses new permits; back off until it resolves or the mode
	// goes away.
	for !b.mgr.gate.Enter() {
		select {
		case <-b.stopCh:
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
	defer b.mgr.gate.Leave()

	if b.mgr.closed.Load() {
		return
	}

	cat := b.mgr.catalog
	if !cat.CompareAndSet(name, types.IndexStateInBuildQueue, types.IndexStateBuilding) {
		state, _ := cat.State(name)
		b.logger.Warn().Str("index", name).Str("state", string(state)).
			Msg("Skipping build: index left the build queue")
		return
	}

	md, ok := cat.Metadata(name)
	if !ok {
		cat.MarkBrokenPersist(name)
		return
	}
	if err := catalog.WriteStatus(md.Dir, types.IndexStateBuilding); err != nil {
		cat.MarkBrokenPersist(name)
		return
	}

	b.logger.Info().Str("index", name).Msg("Index build started")
	metrics.BuildsTotal.Inc()
	timer := metrics.NewTimer()

	err := b.mgr.builder.Build(context.Background(), name, md.Dir, md.Distance, b.mgr.buildParams(), b.mgr.tracker)
	if err != nil {
		metrics.BuildFailuresTotal.Inc()
		b.logger.Error().Err(err).Str("index", name).Msg("Index build failed")
		cat.MarkBrokenPersist(name)
		return
	}

	if ok, err := cat.TransitionPersist(name, types.IndexStateBuilding, types.IndexStateBuilt); !ok || err != nil {
		b.logger.Error().Err(err).Str("index", name).Msg("Failed to record built index")
		return
	}

	timer.ObserveDuration(metrics.BuildDuration)
	b.logger.Info().Str("index", name).Msg("Index build finished")
}

// NewUploadSession opens a streaming upload session bound to this mode.
func (b *BuildMode) NewUploadSession() (*UploadSession, error) {
	return newUploadSession(b), nil
}

// SubscribeBuildStatus registers a listener with the global tracker.
func (b *BuildMode) SubscribeBuildStatus(listener progress.Listener) (int, error) {
	return b.mgr.tracker.Subscribe(listener), nil
}

// FindNearestNeighbours is refused while building.
func (b *BuildMode) FindNearestNeighbours(context.Context, string, int, []float32) ([][]byte, error) {
	return nil, status.Error(codes.Unavailable, "Index manager is in build mode")
}

// DropIndex removes an idle index. In-flight uploads and builds cannot be
// dropped; their states fail the transition below.
func (b *BuildMode) DropIndex(name string) error {
	b.indexCreationLock.Lock()
	defer b.indexCreationLock.Unlock()

	cat := b.mgr.catalog
	if _, ok := cat.State(name); !ok {
		return status.Errorf(codes.NotFound, "index %q does not exist", name)
	}

	ok, observed := cat.CompareAndSetAny(name,
		[]types.IndexState{types.IndexStateCreated, types.IndexStateBuilt, types.IndexStateUploaded},
		types.IndexStateBroken)
	if !ok {
		return status.Errorf(codes.FailedPrecondition,
			"index %q cannot be dropped from state %s", name, observed)
	}

	md, found := cat.Metadata(name)
	if found {
		if err := os.RemoveAll(md.Dir); err != nil {
			cat.MarkBrokenPersist(name)
			return status.Errorf(codes.Internal, "failed to delete index directory: %v", err)
		}
	}

	cat.RemoveMetadata(name)
	cat.Remove(name)
	b.logger.Info().Str("index", name).Msg("Index dropped")
	return nil
}

// Shutdown stops the build worker. Runs behind the drain barrier, so no
// build task is in flight when it executes.
func (b *BuildMode) Shutdown() {
	close(b.stopCh)
	b.done.Wait()

	if pending := len(b.buildCh); pending > 0 {
		b.logger.Warn().Int("pending", pending).Msg("Leaving queued builds behind on mode shutdown")
	}
}

// uploaderSlot reserves the per-process upload budget for an index. The
// rollback of the state CAS on refusal happens in the upload session.
func (b *BuildMode) uploaderSlot(name string) bool {
	b.uploaderLock.Lock()
	defer b.uploaderLock.Unlock()

	if _, ok := b.uploading[name]; ok {
		return true
	}
	if len(b.uploading) >= maxUploaders {
		return false
	}
	b.uploading[name] = struct{}{}
	metrics.UploadsInFlight.Set(float64(len(b.uploading)))
	return true
}

func (b *BuildMode) releaseUploaderSlot(name string) {
	b.uploaderLock.Lock()
	defer b.uploaderLock.Unlock()

	delete(b.uploading, name)
	metrics.UploadsInFlight.Set(float64(len(b.uploading)))
}
