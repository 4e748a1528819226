package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusFileRoundTrip tests durable status writes
func TestStatusFileRoundTrip(t *testing.T) {
	dir := t.TempDir()

	for _, state := range []types.IndexState{
		types.IndexStateCreating,
		types.IndexStateCreated,
		types.IndexStateUploading,
		types.IndexStateUploaded,
		types.IndexStateInBuildQueue,
		types.IndexStateBuilding,
		types.IndexStateBuilt,
		types.IndexStateBroken,
	} {
		require.NoError(t, WriteStatus(dir, state))
		got, err := ReadStatus(dir)
		require.NoError(t, err)
		assert.Equal(t, state, got)
	}
}

// TestStatusFileCrashBeforeRename tests that an abandoned temp file does not
// corrupt the status
func TestStatusFileCrashBeforeRename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteStatus(dir, types.IndexStateCreated))

	// Simulate a crash between temp write and rename: the temp file exists,
	// the status file still holds the old state.
	tmp, err := os.CreateTemp(dir, StatusFileName+"-*")
	require.NoError(t, err)
	_, err = tmp.WriteString(string(types.IndexStateBuilt))
	require.NoError(t, err)
	require.NoError(t, tmp.Close())

	got, err := ReadStatus(dir)
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateCreated, got)
}

// TestReadStatusErrors tests missing and unparseable status files
func TestReadStatusErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadStatus(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, StatusFileName), []byte("HALF_BUILT"), 0644))
	_, err = ReadStatus(dir)
	assert.Error(t, err)
}

// TestMetadataFile tests write-once metadata semantics
func TestMetadataFile(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteMetadata(dir, types.DistanceCosine))
	got, err := ReadMetadata(dir)
	require.NoError(t, err)
	assert.Equal(t, types.DistanceCosine, got)

	// Metadata is immutable: a second write must fail
	assert.Error(t, WriteMetadata(dir, types.DistanceL2))
}

// TestInsertIfAbsent tests name uniqueness
func TestInsertIfAbsent(t *testing.T) {
	c := New()

	assert.True(t, c.InsertIfAbsent("a", types.IndexStateCreating))
	assert.False(t, c.InsertIfAbsent("a", types.IndexStateCreating))

	state, ok := c.State("a")
	require.True(t, ok)
	assert.Equal(t, types.IndexStateCreating, state)
}

// TestConcurrentInsert tests that exactly one concurrent create wins
func TestConcurrentInsert(t *testing.T) {
	c := New()

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- c.InsertIfAbsent("a", types.IndexStateCreating)
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}

// TestCompareAndSet tests CAS transitions
func TestCompareAndSet(t *testing.T) {
	c := New()
	c.InsertIfAbsent("a", types.IndexStateCreated)

	assert.True(t, c.CompareAndSet("a", types.IndexStateCreated, types.IndexStateUploading))
	assert.False(t, c.CompareAndSet("a", types.IndexStateCreated, types.IndexStateUploading))

	state, _ := c.State("a")
	assert.Equal(t, types.IndexStateUploading, state)

	// Unknown name never transitions
	assert.False(t, c.CompareAndSet("b", types.IndexStateCreated, types.IndexStateUploading))
}

// TestCompareAndSetAny tests multi-source CAS
func TestCompareAndSetAny(t *testing.T) {
	c := New()
	c.InsertIfAbsent("a", types.IndexStateUploaded)

	ok, observed := c.CompareAndSetAny("a",
		[]types.IndexState{types.IndexStateCreated, types.IndexStateUploaded},
		types.IndexStateInBuildQueue)
	assert.True(t, ok)
	assert.Equal(t, types.IndexStateUploaded, observed)

	ok, observed = c.CompareAndSetAny("a",
		[]types.IndexState{types.IndexStateCreated, types.IndexStateUploaded},
		types.IndexStateInBuildQueue)
	assert.False(t, ok)
	assert.Equal(t, types.IndexStateInBuildQueue, observed)
}

// TestTransitionPersist tests that winning transitions hit the disk
func TestTransitionPersist(t *testing.T) {
	dir := t.TempDir()
	c := New()
	c.InsertIfAbsent("a", types.IndexStateUploading)
	c.PutMetadata("a", types.IndexMetadata{Distance: types.DistanceL2, Dir: dir})

	ok, err := c.TransitionPersist("a", types.IndexStateUploading, types.IndexStateUploaded)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := ReadStatus(dir)
	require.NoError(t, err)
	assert.Equal(t, types.IndexStateUploaded, got)

	// Losing CAS does not touch the file
	ok, err = c.TransitionPersist("a", types.IndexStateUploading, types.IndexStateBuilt)
	require.NoError(t, err)
	assert.False(t, ok)
	got, _ = ReadStatus(dir)
	assert.Equal(t, types.IndexStateUploaded, got)
}

// TestTransitionPersistFailureBreaksIndex tests the BROKEN fallback when
// persistence fails after the in-memory flip
func TestTransitionPersistFailureBreaksIndex(t *testing.T) {
	c := New()
	c.InsertIfAbsent("a", types.IndexStateUploading)
	c.PutMetadata("a", types.IndexMetadata{Distance: types.DistanceL2, Dir: filepath.Join(t.TempDir(), "missing")})

	ok, err := c.TransitionPersist("a", types.IndexStateUploading, types.IndexStateUploaded)
	assert.True(t, ok)
	assert.Error(t, err)

	state, _ := c.State("a")
	assert.Equal(t, types.IndexStateBroken, state)
}

// TestListNames tests broken-index filtering and ordering
func TestListNames(t *testing.T) {
	c := New()
	c.InsertIfAbsent("c", types.IndexStateBuilt)
	c.InsertIfAbsent("a", types.IndexStateCreated)
	c.InsertIfAbsent("b", types.IndexStateBroken)

	assert.Equal(t, []string{"a", "c"}, c.ListNames(types.IndexStateBroken))
}

func writeIndexDir(t *testing.T, root, name string, state types.IndexState, distance types.Distance) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, WriteStatus(dir, state))
	if distance != "" {
		require.NoError(t, WriteMetadata(dir, distance))
	}
	return dir
}

// TestReconcile tests startup recovery from disk
func TestReconcile(t *testing.T) {
	root := t.TempDir()

	writeIndexDir(t, root, "created", types.IndexStateCreated, types.DistanceL2)
	writeIndexDir(t, root, "uploaded", types.IndexStateUploaded, types.DistanceDot)
	writeIndexDir(t, root, "built", types.IndexStateBuilt, types.DistanceCosine)

	// Not safe to resume
	writeIndexDir(t, root, "creating", types.IndexStateCreating, types.DistanceL2)
	writeIndexDir(t, root, "uploading", types.IndexStateUploading, types.DistanceL2)
	writeIndexDir(t, root, "queued", types.IndexStateInBuildQueue, types.DistanceL2)
	writeIndexDir(t, root, "building", types.IndexStateBuilding, types.DistanceL2)
	writeIndexDir(t, root, "broken", types.IndexStateBroken, types.DistanceL2)

	// Damaged directories
	require.NoError(t, os.MkdirAll(filepath.Join(root, "no-status"), 0755))
	writeIndexDir(t, root, "no-metadata", types.IndexStateCreated, "")
	badState := filepath.Join(root, "bad-state")
	require.NoError(t, os.MkdirAll(badState, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(badState, StatusFileName), []byte("garbage"), 0644))

	c := New()
	require.NoError(t, c.Reconcile(root))

	assert.Equal(t, []string{"built", "created", "uploaded"}, c.ListNames(types.IndexStateBroken))

	state, ok := c.State("built")
	require.True(t, ok)
	assert.Equal(t, types.IndexStateBuilt, state)

	md, ok := c.Metadata("uploaded")
	require.True(t, ok)
	assert.Equal(t, types.DistanceDot, md.Distance)
	assert.Equal(t, filepath.Join(root, "uploaded"), md.Dir)

	for _, skipped := range []string{"creating", "uploading", "queued", "building", "broken", "no-status", "no-metadata", "bad-state"} {
		_, ok := c.State(skipped)
		assert.False(t, ok, "index %s should not be recovered", skipped)
	}
}
