package index

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

// IndexFileName is the queryable on-disk index produced by a build.
const IndexFileName = "index.bin"

var indexMagic = [8]byte{'V', 'D', 'B', 'F', 'L', 'A', 'T', '1'}

// indexHeader prefixes the index file, little-endian.
type indexHeader struct {
	Magic      [8]byte
	Dimensions uint32
	Count      uint64
}

const indexHeaderSize = 20

// BuildParams carries the sizing parameters handed to a build, taken from
// configuration and the boot-time memory probe.
type BuildParams struct {
	Dimensions              int
	MaxConnectionsPerVertex int
	MaxCandidatesReturned   int
	CompressionRatio        int
	DistanceMultiplier      float64
	MaxMemoryBytes          int64
}

// ProgressListener receives build phase callbacks from a running builder.
type ProgressListener interface {
	Begin(index string)
	Phase(name string, params ...string)
	Update(completion float64)
	End(index string)
}

// Builder transforms the uploaded vectors of an index directory into a
// queryable on-disk index. Build blocks for the whole build duration.
type Builder interface {
	Build(ctx context.Context, name, dir string, distance types.Distance, params BuildParams, progress ProgressListener) error
}

// FlatBuilder produces a flat exact-scan index: every vector is laid out
// sequentially behind a counted header. Queries scan the whole file through
// the disk cache, so recall is exact and build cost is a single rewrite of
// the uploaded data.
type FlatBuilder struct{}

// NewFlatBuilder creates a FlatBuilder.
func NewFlatBuilder() *FlatBuilder {
	return &FlatBuilder{}
}

// Build reads the uploaded vectors and writes the index file. The index is
// written to a temp file and moved into place when complete.
func (b *FlatBuilder) Build(ctx context.Context, name, dir string, distance types.Distance, params BuildParams, progress ProgressListener) error {
	progress.Begin(name)
	defer progress.End(name)

	progress.Phase("reading vectors",
		fmt.Sprintf("dimensions=%d", params.Dimensions),
		fmt.Sprintf("distance=%s", distance),
	)

	var count uint64
	err := readRecords(dir, params.Dimensions, func(record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read uploaded vectors: %w", err)
	}
	progress.Update(100)

	progress.Phase("writing index",
		fmt.Sprintf("vectors=%d", count),
		fmt.Sprintf("max-connections-per-vertex=%d", params.MaxConnectionsPerVertex),
		fmt.Sprintf("max-candidates-returned=%d", params.MaxCandidatesReturned),
		fmt.Sprintf("compression-ratio=%d", params.CompressionRatio),
	)

	tmp, err := os.CreateTemp(dir, IndexFileName+"-*")
	if err != nil {
		return fmt.Errorf("failed to create index temp file: %w", err)
	}
	tmpName := tmp.Name()
	w := bufio.NewWriter(tmp)

	header := indexHeader{Magic: indexMagic, Dimensions: uint32(params.Dimensions), Count: count}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index header: %w", err)
	}

	var written uint64
	err = readRecords(dir, params.Dimensions, func(rec record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.id))); err != nil {
			return err
		}
		if _, err := w.Write(rec.id); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, rec.vector); err != nil {
			return err
		}
		written++
		if count > 0 && written%1024 == 0 {
			progress.Update(float64(written) / float64(count) * 100)
		}
		return nil
	})
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write index records: %w", err)
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush index file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close index file: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, IndexFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move index file into place: %w", err)
	}

	progress.Update(100)
	return nil
}
