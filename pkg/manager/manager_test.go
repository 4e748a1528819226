package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/catalog"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/config"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/index"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/memory"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func testConfig(t *testing.T, mode config.Mode) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.VectoriaDB.Index.Dimensions = 3
	cfg.VectoriaDB.Server.BasePath = t.TempDir()
	cfg.VectoriaDB.Server.DefaultMode = mode
	return cfg
}

func newTestManager(t *testing.T, mode config.Mode) *Manager {
	return newTestManagerWithBuilder(t, mode, nil)
}

func newTestManagerWithBuilder(t *testing.T, mode config.Mode, builder index.Builder) *Manager {
	t.Helper()
	m, err := NewManager(&Config{
		Config:           testConfig(t, mode),
		Budgets:          memory.Budgets{IndexBuilding: 1 << 20, DiskCache: 1 << 20},
		Builder:          builder,
		ProgressInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func uploadVectors(t *testing.T, m *Manager, name string, vectors [][]float32, ids [][]byte) {
	t.Helper()
	session, err := m.UploadSession()
	require.NoError(t, err)
	for i, v := range vectors {
		require.NoError(t, session.Chunk(name, v, ids[i]))
	}
	require.NoError(t, session.Complete())
}

func waitForState(t *testing.T, m *Manager, name string, want types.IndexState) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state, err := m.RetrieveIndexState(name)
		require.NoError(t, err)
		if state == want {
			return
		}
		require.NotEqual(t, types.IndexStateBroken, state)
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("index %s did not reach %s", name, want)
}

// blockingBuilder parks builds until released, to pin indexes in BUILDING.
type blockingBuilder struct {
	started chan string
	release chan struct{}
}

func (b *blockingBuilder) Build(ctx context.Context, name, dir string, distance types.Distance, params index.BuildParams, progress index.ProgressListener) error {
	b.started <- name
	<-b.release
	return index.NewFlatBuilder().Build(ctx, name, dir, distance, params, progress)
}

type failingBuilder struct{}

func (failingBuilder) Build(context.Context, string, string, types.Distance, index.BuildParams, index.ProgressListener) error {
	return fmt.Errorf("builder exploded")
}

// TestLifecycleEndToEnd walks one index through upload, build and query
func TestLifecycleEndToEnd(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))

	state, err := m.RetrieveIndexState("a")
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateCreated, state)

	// The acknowledged state is on disk
	md, ok := m.catalog.Metadata("a")
	require.True(t, ok)
	onDisk, err := catalog.ReadStatus(md.Dir)
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateCreated, onDisk)

	uploadVectors(t, m, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})

	state, err = m.RetrieveIndexState("a")
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateUploaded, state)

	require.NoError(t, m.TriggerBuild("a"))
	waitForState(t, m, "a", types.IndexStateBuilt)

	onDisk, err = catalog.ReadStatus(md.Dir)
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateBuilt, onDisk)

	require.NoError(t, m.SwitchToSearchMode())

	ids, err := m.FindNearestNeighbours(ctx, "a", 1, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x01}}, ids)
}

// TestCreateIndexDuplicate tests the second create of a name
func TestCreateIndexDuplicate(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	err := m.CreateIndex(ctx, "a", types.DistanceL2)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

// TestUploadDimensionMismatch tests that a bad first chunk leaves no trace
func TestUploadDimensionMismatch(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	require.NoError(t, m.CreateIndex(context.Background(), "a", types.DistanceL2))

	session, err := m.UploadSession()
	require.NoError(t, err)

	err = session.Chunk("a", []float32{1, 2}, []byte{0x01})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	session.Abort(err)

	state, err := m.RetrieveIndexState("a")
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateCreated, state)

	// The index is still usable
	uploadVectors(t, m, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})
}

// TestUploadWrongState tests uploads against an index that is not CREATED
func TestUploadWrongState(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	require.NoError(t, m.CreateIndex(context.Background(), "a", types.DistanceL2))
	uploadVectors(t, m, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})

	// Now UPLOADED: a new session must be refused
	session, err := m.UploadSession()
	require.NoError(t, err)
	err = session.Chunk("a", []float32{4, 5, 6}, []byte{0x02})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	session.Abort(err)

	state, _ := m.RetrieveIndexState("a")
	assert.Equal(t, types.IndexStateUploaded, state)
}

// TestUploadUnknownIndex tests the first chunk naming a missing index
func TestUploadUnknownIndex(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)

	session, err := m.UploadSession()
	require.NoError(t, err)
	err = session.Chunk("ghost", []float32{1, 2, 3}, []byte{0x01})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	session.Abort(err)
}

// TestUploadNameMismatch tests a chunk naming a different index mid-stream
func TestUploadNameMismatch(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()
	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	require.NoError(t, m.CreateIndex(ctx, "b", types.DistanceL2))

	session, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, session.Chunk("a", []float32{1, 2, 3}, []byte{0x01}))

	err = session.Chunk("b", []float32{4, 5, 6}, []byte{0x02})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	session.Abort(err)

	// The bound index is broken, the named one untouched
	stateA, _ := m.RetrieveIndexState("a")
	assert.Equal(t, types.IndexStateBroken, stateA)
	stateB, _ := m.RetrieveIndexState("b")
	assert.Equal(t, types.IndexStateCreated, stateB)
}

// TestUploadAbortBreaksIndex tests stream failure mid-upload
func TestUploadAbortBreaksIndex(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	require.NoError(t, m.CreateIndex(context.Background(), "a", types.DistanceL2))

	session, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, session.Chunk("a", []float32{1, 2, 3}, []byte{0x01}))
	session.Abort(fmt.Errorf("client went away"))

	state, _ := m.RetrieveIndexState("a")
	assert.Equal(t, types.IndexStateBroken, state)

	// BROKEN is persisted
	md, ok := m.catalog.Metadata("a")
	require.True(t, ok)
	onDisk, err := catalog.ReadStatus(md.Dir)
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateBroken, onDisk)

	// ...and excluded from listing
	names, err := m.ListIndexes()
	require.NoError(t, err)
	assert.NotContains(t, names, "a")
}

// TestUploaderBudget tests the 64-uploader ceiling and its rollback
func TestUploaderBudget(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	sessions := make([]*UploadSession, maxUploaders)
	for i := 0; i < maxUploaders; i++ {
		name := fmt.Sprintf("idx-%02d", i)
		require.NoError(t, m.CreateIndex(ctx, name, types.DistanceL2))

		session, err := m.UploadSession()
		require.NoError(t, err)
		require.NoError(t, session.Chunk(name, []float32{1, 2, 3}, []byte{byte(i)}))
		sessions[i] = session
	}

	require.NoError(t, m.CreateIndex(ctx, "one-too-many", types.DistanceL2))
	extra, err := m.UploadSession()
	require.NoError(t, err)
	err = extra.Chunk("one-too-many", []float32{1, 2, 3}, []byte{0xff})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	extra.Abort(err)

	// The refused index rolled back to CREATED
	state, _ := m.RetrieveIndexState("one-too-many")
	assert.Equal(t, types.IndexStateCreated, state)

	// Finishing one upload frees a slot
	require.NoError(t, sessions[0].Complete())
	retry, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, retry.Chunk("one-too-many", []float32{1, 2, 3}, []byte{0xff}))
	require.NoError(t, retry.Complete())

	for _, session := range sessions[1:] {
		require.NoError(t, session.Complete())
	}
}

// TestTriggerBuildPreconditions tests build triggers from every wrong state
func TestTriggerBuildPreconditions(t *testing.T) {
	builder := &blockingBuilder{started: make(chan string), release: make(chan struct{})}
	m := newTestManagerWithBuilder(t, config.ModeBuild, builder)
	ctx := context.Background()

	err := m.TriggerBuild("ghost")
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	uploadVectors(t, m, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})

	require.NoError(t, m.TriggerBuild("a"))
	<-builder.started

	// BUILDING cannot be re-triggered
	err = m.TriggerBuild("a")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	// Queue a second index: it sits IN_BUILD_QUEUE behind the running build
	require.NoError(t, m.CreateIndex(ctx, "b", types.DistanceL2))
	require.NoError(t, m.TriggerBuild("b"))
	err = m.TriggerBuild("b")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	// An uploading index cannot be built
	require.NoError(t, m.CreateIndex(ctx, "c", types.DistanceL2))
	session, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, session.Chunk("c", []float32{1, 2, 3}, []byte{0x03}))
	err = m.TriggerBuild("c")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.NoError(t, session.Complete())

	close(builder.release)
	<-builder.started // second build starts after the first finishes
	waitForState(t, m, "a", types.IndexStateBuilt)
	waitForState(t, m, "b", types.IndexStateBuilt)

	// BUILT cannot be re-triggered either
	err = m.TriggerBuild("a")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// TestBuildFailureBreaksIndex tests that builder errors end in BROKEN
func TestBuildFailureBreaksIndex(t *testing.T) {
	m := newTestManagerWithBuilder(t, config.ModeBuild, failingBuilder{})
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	require.NoError(t, m.TriggerBuild("a"))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		state, err := m.RetrieveIndexState("a")
		require.NoError(t, err)
		if state == types.IndexStateBroken {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("index did not become BROKEN")
}

// TestSearchModeRefusesWrites tests the permission wall in search mode
func TestSearchModeRefusesWrites(t *testing.T) {
	m := newTestManager(t, config.ModeSearch)
	ctx := context.Background()

	err := m.CreateIndex(ctx, "a", types.DistanceL2)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	err = m.TriggerBuild("a")
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = m.UploadSession()
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	// Switching to build mode opens them up
	require.NoError(t, m.SwitchToBuildMode())
	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
}

// TestBuildModeRefusesQueries tests query refusal outside search mode
func TestBuildModeRefusesQueries(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)

	_, err := m.FindNearestNeighbours(context.Background(), "a", 1, []float32{1, 2, 3})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

// TestModeSwapIdempotent tests swapping into the active mode
func TestModeSwapIdempotent(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)

	require.NoError(t, m.SwitchToBuildMode())
	require.NoError(t, m.SwitchToSearchMode())
	require.NoError(t, m.SwitchToSearchMode())
	require.NoError(t, m.SwitchToBuildMode())
}

// TestModeSwapBlockedByInFlightUpload tests the drain barrier
func TestModeSwapBlockedByInFlightUpload(t *testing.T) {
	old := drainRetry
	drainRetry = 50 * time.Millisecond
	t.Cleanup(func() { drainRetry = old })

	m := newTestManager(t, config.ModeBuild)
	require.NoError(t, m.CreateIndex(context.Background(), "a", types.DistanceL2))

	session, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, session.Chunk("a", []float32{1, 2, 3}, []byte{0x01}))

	err = m.SwitchToSearchMode()
	assert.Equal(t, codes.Unavailable, status.Code(err))

	require.NoError(t, session.Complete())
	require.NoError(t, m.SwitchToSearchMode())
}

// TestQueryPreconditions tests queries against missing and unbuilt indexes
func TestQueryPreconditions(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "unbuilt", types.DistanceL2))
	require.NoError(t, m.SwitchToSearchMode())

	_, err := m.FindNearestNeighbours(ctx, "ghost", 1, []float32{1, 2, 3})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = m.FindNearestNeighbours(ctx, "unbuilt", 1, []float32{1, 2, 3})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// TestQueryZeroK tests that k = 0 yields an empty result
func TestQueryZeroK(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	uploadVectors(t, m, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})
	require.NoError(t, m.TriggerBuild("a"))
	waitForState(t, m, "a", types.IndexStateBuilt)
	require.NoError(t, m.SwitchToSearchMode())

	ids, err := m.FindNearestNeighbours(ctx, "a", 0, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestDropAndRecreate tests the drop/create round trip in build mode
func TestDropAndRecreate(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	md, _ := m.catalog.Metadata("a")

	require.NoError(t, m.DropIndex("a"))
	assert.NoDirExists(t, md.Dir)

	_, err := m.RetrieveIndexState("a")
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
}

// TestDropPreconditions tests undroppable states in build mode
func TestDropPreconditions(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	err := m.DropIndex("ghost")
	assert.Equal(t, codes.NotFound, status.Code(err))

	// An uploading index cannot be dropped
	require.NoError(t, m.CreateIndex(ctx, "up", types.DistanceL2))
	session, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, session.Chunk("up", []float32{1, 2, 3}, []byte{0x01}))
	err = m.DropIndex("up")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.NoError(t, session.Complete())

	// A broken index cannot be dropped in build mode
	require.NoError(t, m.CreateIndex(ctx, "bad", types.DistanceL2))
	badSession, err := m.UploadSession()
	require.NoError(t, err)
	require.NoError(t, badSession.Chunk("bad", []float32{1, 2, 3}, []byte{0x02}))
	badSession.Abort(fmt.Errorf("stream died"))
	err = m.DropIndex("bad")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// TestDropInSearchMode tests dropping a built index through its reader
func TestDropInSearchMode(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	ctx := context.Background()

	require.NoError(t, m.CreateIndex(ctx, "a", types.DistanceL2))
	uploadVectors(t, m, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})
	require.NoError(t, m.TriggerBuild("a"))
	waitForState(t, m, "a", types.IndexStateBuilt)
	require.NoError(t, m.SwitchToSearchMode())

	md, _ := m.catalog.Metadata("a")
	require.NoError(t, m.DropIndex("a"))
	assert.NoDirExists(t, md.Dir)

	_, err := m.RetrieveIndexState("a")
	assert.Equal(t, codes.NotFound, status.Code(err))

	// Unbuilt indexes cannot be dropped in search mode
	require.NoError(t, m.SwitchToBuildMode())
	require.NoError(t, m.CreateIndex(ctx, "b", types.DistanceL2))
	require.NoError(t, m.SwitchToSearchMode())
	err = m.DropIndex("b")
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

// TestCloseRefusesEverything tests post-shutdown behavior
func TestCloseRefusesEverything(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)
	m.Close()

	err := m.CreateIndex(context.Background(), "a", types.DistanceL2)
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = m.ListIndexes()
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = m.UploadSession()
	assert.Equal(t, codes.Unavailable, status.Code(err))

	err = m.SwitchToSearchMode()
	assert.Equal(t, codes.Unavailable, status.Code(err))

	// Closing twice is harmless
	m.Close()
}

// TestRestartSkipsInFlightStates tests scenario-style crash recovery
func TestRestartSkipsInFlightStates(t *testing.T) {
	cfg := testConfig(t, config.ModeBuild)

	// A crash mid-build leaves BUILDING on disk
	dir := filepath.Join(cfg.IndexesDir(), "a")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, catalog.WriteStatus(dir, types.IndexStateBuilding))
	require.NoError(t, catalog.WriteMetadata(dir, types.DistanceL2))

	m, err := NewManager(&Config{
		Config:           cfg,
		Budgets:          memory.Budgets{IndexBuilding: 1 << 20, DiskCache: 1 << 20},
		ProgressInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	names, err := m.ListIndexes()
	require.NoError(t, err)
	assert.NotContains(t, names, "a")

	// The index is invisible: dropping it needs out-of-band cleanup
	err = m.DropIndex("a")
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.DirExists(t, dir)
}

// TestRestartRecoversUploadedIndex tests resuming a recoverable state
func TestRestartRecoversUploadedIndex(t *testing.T) {
	cfg := testConfig(t, config.ModeBuild)
	budgets := memory.Budgets{IndexBuilding: 1 << 20, DiskCache: 1 << 20}

	m1, err := NewManager(&Config{Config: cfg, Budgets: budgets, ProgressInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, m1.CreateIndex(context.Background(), "a", types.DistanceL2))
	uploadVectors(t, m1, "a", [][]float32{{1, 2, 3}}, [][]byte{{0x01}})
	m1.Close()

	m2, err := NewManager(&Config{Config: cfg, Budgets: budgets, ProgressInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(m2.Close)

	state, err := m2.RetrieveIndexState("a")
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateUploaded, state)

	// The recovered index builds and serves
	require.NoError(t, m2.TriggerBuild("a"))
	waitForState(t, m2, "a", types.IndexStateBuilt)
	require.NoError(t, m2.SwitchToSearchMode())
	ids, err := m2.FindNearestNeighbours(context.Background(), "a", 1, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x01}}, ids)
}

// TestBuildStatusSubscription tests listener registration per mode
func TestBuildStatusSubscription(t *testing.T) {
	m := newTestManager(t, config.ModeBuild)

	listener := &countingListener{}
	id, err := m.SubscribeBuildStatus(listener)
	require.NoError(t, err)
	m.UnsubscribeBuildStatus(id)

	require.NoError(t, m.SwitchToSearchMode())
	_, err = m.SubscribeBuildStatus(listener)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

type countingListener struct{}

func (countingListener) Notify(types.BuildProgress) error { return nil }
