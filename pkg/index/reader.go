package index

import (
	"bytes"
	"container/heap"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

// Reader answers k-nearest-neighbour queries against a built index.
type Reader interface {
	NearestNeighbours(ctx context.Context, query []float32, k int) ([][]byte, error)
	DeleteIndex() error
	Close() error
}

// FlatReader serves queries by scanning the flat index file through the
// shared disk page cache.
type FlatReader struct {
	dir      string
	path     string
	dims     int
	count    uint64
	distance DistanceFunc
	cache    *DiskCache
}

// OpenReader opens the index file of a built index against the shared cache.
func OpenReader(dir string, distance types.Distance, params BuildParams, cache *DiskCache) (*FlatReader, error) {
	path := filepath.Join(dir, IndexFileName)

	var raw [indexHeaderSize]byte
	if _, err := cache.ReadAt(path, raw[:], 0); err != nil {
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}

	var header indexHeader
	if err := binary.Read(bytes.NewReader(raw[:]), binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to parse index header: %w", err)
	}
	if header.Magic != indexMagic {
		return nil, fmt.Errorf("not an index file: %s", path)
	}
	if int(header.Dimensions) != params.Dimensions {
		return nil, fmt.Errorf("index has %d dimensions, configured %d", header.Dimensions, params.Dimensions)
	}

	dist, err := ForDistance(distance, params.DistanceMultiplier)
	if err != nil {
		return nil, err
	}

	return &FlatReader{
		dir:      dir,
		path:     path,
		dims:     params.Dimensions,
		count:    header.Count,
		distance: dist,
		cache:    cache,
	}, nil
}

// NearestNeighbours scans every stored vector and keeps the k closest.
// A k of zero returns an empty result without touching disk.
func (r *FlatReader) NearestNeighbours(ctx context.Context, query []float32, k int) ([][]byte, error) {
	if k <= 0 {
		return [][]byte{}, nil
	}
	if len(query) != r.dims {
		return nil, fmt.Errorf("query has %d components, expected %d", len(query), r.dims)
	}

	best := &resultHeap{}
	heap.Init(best)

	offset := int64(indexHeaderSize)
	vector := make([]float32, r.dims)
	vecBuf := make([]byte, r.dims*4)

	for i := uint64(0); i < r.count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var lenBuf [4]byte
		if _, err := r.cache.ReadAt(r.path, lenBuf[:], offset); err != nil {
			return nil, fmt.Errorf("failed to read index record: %w", err)
		}
		idLen := binary.LittleEndian.Uint32(lenBuf[:])
		offset += 4

		id := make([]byte, idLen)
		if _, err := r.cache.ReadAt(r.path, id, offset); err != nil {
			return nil, fmt.Errorf("failed to read index record: %w", err)
		}
		offset += int64(idLen)

		if _, err := r.cache.ReadAt(r.path, vecBuf, offset); err != nil {
			return nil, fmt.Errorf("failed to read index record: %w", err)
		}
		offset += int64(len(vecBuf))
		for j := range vector {
			vector[j] = math.Float32frombits(binary.LittleEndian.Uint32(vecBuf[j*4:]))
		}

		d := r.distance(query, vector)
		if best.Len() < k {
			heap.Push(best, result{id: id, distance: d})
		} else if d < (*best)[0].distance {
			(*best)[0] = result{id: id, distance: d}
			heap.Fix(best, 0)
		}
	}

	// Pop from worst to best so the final slice is closest-first.
	ids := make([][]byte, best.Len())
	for i := best.Len() - 1; i >= 0; i-- {
		ids[i] = heap.Pop(best).(result).id
	}
	return ids, nil
}

// Close drops the reader's pages from the shared cache.
func (r *FlatReader) Close() error {
	r.cache.Forget(r.path)
	return nil
}

// DeleteIndex removes the whole index directory.
func (r *FlatReader) DeleteIndex() error {
	r.cache.Forget(r.path)
	if err := os.RemoveAll(r.dir); err != nil {
		return fmt.Errorf("failed to delete index directory: %w", err)
	}
	return nil
}

type result struct {
	id       []byte
	distance float32
}

// resultHeap is a max-heap on distance: the root is the worst of the k best
// candidates and is the one displaced by a closer vector.
type resultHeap []result

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return h[i].distance > h[j].distance }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(result)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
