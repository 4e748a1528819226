package index

import (
	"context"
	"testing"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopProgress struct{}

func (nopProgress) Begin(string)            {}
func (nopProgress) Phase(string, ...string) {}
func (nopProgress) Update(float64)          {}
func (nopProgress) End(string)              {}

func testParams(dims int) BuildParams {
	return BuildParams{
		Dimensions:              dims,
		MaxConnectionsPerVertex: 16,
		MaxCandidatesReturned:   16,
		CompressionRatio:        32,
		DistanceMultiplier:      1.0,
	}
}

// TestDistanceFunctions tests the distance catalog
func TestDistanceFunctions(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}

	l2, err := ForDistance(types.DistanceL2, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, l2(a, b), 1e-6)
	assert.InDelta(t, 0.0, l2(a, a), 1e-6)

	dot, err := ForDistance(types.DistanceDot, 1.0)
	require.NoError(t, err)
	// Larger inner product ranks closer
	assert.Less(t, dot(a, a), dot(a, b))

	cos, err := ForDistance(types.DistanceCosine, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, cos(a, a), 1e-6)
	assert.InDelta(t, 1.0, cos(a, b), 1e-6)

	_, err = ForDistance("HAMMING", 1.0)
	assert.Error(t, err)
}

// TestDistanceMultiplier tests that the configured multiplier scales distances
func TestDistanceMultiplier(t *testing.T) {
	a := []float32{3, 4}
	b := []float32{0, 0}

	l2, err := ForDistance(types.DistanceL2, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, l2(a, b), 1e-4)
}

// TestDataStoreRoundTrip tests appending and reading back records
func TestDataStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ds, err := NewDataStore(dir, 3)
	require.NoError(t, err)
	require.NoError(t, ds.Append([]float32{1, 2, 3}, []byte{0x01}))
	require.NoError(t, ds.Append([]float32{4, 5, 6}, []byte("second")))
	require.NoError(t, ds.Close())

	var records []record
	require.NoError(t, readRecords(dir, 3, func(r record) error {
		records = append(records, r)
		return nil
	}))

	require.Len(t, records, 2)
	assert.Equal(t, []byte{0x01}, records[0].id)
	assert.Equal(t, []float32{1, 2, 3}, records[0].vector)
	assert.Equal(t, []byte("second"), records[1].id)
	assert.Equal(t, []float32{4, 5, 6}, records[1].vector)
}

// TestDataStoreRejectsWrongDimensions tests the dimensionality guard
func TestDataStoreRejectsWrongDimensions(t *testing.T) {
	ds, err := NewDataStore(t.TempDir(), 3)
	require.NoError(t, err)
	defer ds.Close()

	assert.Error(t, ds.Append([]float32{1, 2}, []byte{0x01}))
}

// TestDataStoreAppendsAcrossSessions tests that reopening keeps prior records
func TestDataStoreAppendsAcrossSessions(t *testing.T) {
	dir := t.TempDir()

	ds, err := NewDataStore(dir, 2)
	require.NoError(t, err)
	require.NoError(t, ds.Append([]float32{1, 1}, []byte{1}))
	require.NoError(t, ds.Close())

	ds, err = NewDataStore(dir, 2)
	require.NoError(t, err)
	require.NoError(t, ds.Append([]float32{2, 2}, []byte{2}))
	require.NoError(t, ds.Close())

	count := 0
	require.NoError(t, readRecords(dir, 2, func(record) error {
		count++
		return nil
	}))
	assert.Equal(t, 2, count)
}

// TestBuildAndQuery tests the full build-then-search path
func TestBuildAndQuery(t *testing.T) {
	dir := t.TempDir()
	params := testParams(3)

	ds, err := NewDataStore(dir, 3)
	require.NoError(t, err)
	require.NoError(t, ds.Append([]float32{1, 2, 3}, []byte{0x01}))
	require.NoError(t, ds.Append([]float32{10, 10, 10}, []byte{0x02}))
	require.NoError(t, ds.Append([]float32{-5, 0, 1}, []byte{0x03}))
	require.NoError(t, ds.Close())

	builder := NewFlatBuilder()
	require.NoError(t, builder.Build(context.Background(), "a", dir, types.DistanceL2, params, nopProgress{}))

	cache := NewDiskCache(1 << 20)
	defer cache.Close()

	reader, err := OpenReader(dir, types.DistanceL2, params, cache)
	require.NoError(t, err)
	defer reader.Close()

	ids, err := reader.NearestNeighbours(context.Background(), []float32{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x01}}, ids)

	ids, err = reader.NearestNeighbours(context.Background(), []float32{9, 9, 9}, 2)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, []byte{0x02}, ids[0])
	assert.Equal(t, []byte{0x01}, ids[1])
}

// TestNearestNeighboursZeroK tests that k = 0 yields an empty result
func TestNearestNeighboursZeroK(t *testing.T) {
	dir := t.TempDir()
	params := testParams(2)

	ds, err := NewDataStore(dir, 2)
	require.NoError(t, err)
	require.NoError(t, ds.Append([]float32{1, 1}, []byte{1}))
	require.NoError(t, ds.Close())

	require.NoError(t, NewFlatBuilder().Build(context.Background(), "a", dir, types.DistanceL2, params, nopProgress{}))

	cache := NewDiskCache(1 << 20)
	defer cache.Close()
	reader, err := OpenReader(dir, types.DistanceL2, params, cache)
	require.NoError(t, err)
	defer reader.Close()

	ids, err := reader.NearestNeighbours(context.Background(), []float32{1, 1}, 0)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestKLargerThanIndex tests asking for more neighbours than vectors stored
func TestKLargerThanIndex(t *testing.T) {
	dir := t.TempDir()
	params := testParams(2)

	ds, err := NewDataStore(dir, 2)
	require.NoError(t, err)
	require.NoError(t, ds.Append([]float32{0, 0}, []byte{1}))
	require.NoError(t, ds.Append([]float32{1, 1}, []byte{2}))
	require.NoError(t, ds.Close())

	require.NoError(t, NewFlatBuilder().Build(context.Background(), "a", dir, types.DistanceL2, params, nopProgress{}))

	cache := NewDiskCache(1 << 20)
	defer cache.Close()
	reader, err := OpenReader(dir, types.DistanceL2, params, cache)
	require.NoError(t, err)
	defer reader.Close()

	ids, err := reader.NearestNeighbours(context.Background(), []float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

// TestBuildEmptyIndex tests building with no uploads
func TestBuildEmptyIndex(t *testing.T) {
	dir := t.TempDir()
	params := testParams(2)

	require.NoError(t, NewFlatBuilder().Build(context.Background(), "a", dir, types.DistanceL2, params, nopProgress{}))

	cache := NewDiskCache(1 << 20)
	defer cache.Close()
	reader, err := OpenReader(dir, types.DistanceL2, params, cache)
	require.NoError(t, err)
	defer reader.Close()

	ids, err := reader.NearestNeighbours(context.Background(), []float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestDiskCacheEviction tests that a tiny cache still serves reads correctly
func TestDiskCacheEviction(t *testing.T) {
	dir := t.TempDir()
	params := testParams(4)

	ds, err := NewDataStore(dir, 4)
	require.NoError(t, err)
	// 50000 records of 22 bytes span about 17 pages of 64 KiB
	for i := 0; i < 50000; i++ {
		v := float32(i)
		require.NoError(t, ds.Append([]float32{v, v, v, v}, []byte{byte(i), byte(i >> 8)}))
	}
	require.NoError(t, ds.Close())

	require.NoError(t, NewFlatBuilder().Build(context.Background(), "a", dir, types.DistanceL2, params, nopProgress{}))

	// Capacity clamps to the minimum page count of 16, fewer pages than the
	// index file spans, so a scan evicts pages and still succeeds
	cache := NewDiskCache(0)
	defer cache.Close()
	reader, err := OpenReader(dir, types.DistanceL2, params, cache)
	require.NoError(t, err)
	defer reader.Close()

	ids, err := reader.NearestNeighbours(context.Background(), []float32{250, 250, 250, 250}, 1)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, []byte{250 & 0xff, 0}, ids[0])
}

// TestDeleteIndex tests that dropping removes the directory
func TestDeleteIndex(t *testing.T) {
	dir := t.TempDir()
	params := testParams(2)

	require.NoError(t, NewFlatBuilder().Build(context.Background(), "a", dir, types.DistanceL2, params, nopProgress{}))

	cache := NewDiskCache(1 << 20)
	defer cache.Close()
	reader, err := OpenReader(dir, types.DistanceL2, params, cache)
	require.NoError(t, err)

	require.NoError(t, reader.DeleteIndex())
	assert.NoDirExists(t, dir)
}
