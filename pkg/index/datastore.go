package index

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DataStoreFileName is the append-only file of raw uploaded vectors.
const DataStoreFileName = "vectors.bin"

// DataStore is an append-only writer of (vector, id) records into an index
// directory. One store is open per upload session; records are flushed and
// synced on Close.
//
// Record layout, little-endian:
//
//	uint32 id length | id bytes | dimensions × float32
type DataStore struct {
	file *os.File
	w    *bufio.Writer
	dims int
}

// NewDataStore opens (creating if needed) the vector file of an index for
// appending.
func NewDataStore(dir string, dims int) (*DataStore, error) {
	f, err := os.OpenFile(filepath.Join(dir, DataStoreFileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %w", err)
	}
	return &DataStore{
		file: f,
		w:    bufio.NewWriter(f),
		dims: dims,
	}, nil
}

// Append writes one (vector, id) record.
func (ds *DataStore) Append(components []float32, id []byte) error {
	if len(components) != ds.dims {
		return fmt.Errorf("vector has %d components, expected %d", len(components), ds.dims)
	}

	if err := binary.Write(ds.w, binary.LittleEndian, uint32(len(id))); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if _, err := ds.w.Write(id); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := binary.Write(ds.w, binary.LittleEndian, components); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// Close flushes buffered records and syncs the file.
func (ds *DataStore) Close() error {
	flushErr := ds.w.Flush()
	syncErr := ds.file.Sync()
	closeErr := ds.file.Close()

	if flushErr != nil {
		return fmt.Errorf("failed to flush data store: %w", flushErr)
	}
	if syncErr != nil {
		return fmt.Errorf("failed to sync data store: %w", syncErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close data store: %w", closeErr)
	}
	return nil
}

// record is one stored (vector, id) pair.
type record struct {
	id     []byte
	vector []float32
}

// readRecords streams every record out of the vector file. A missing file
// yields no records: an index built before any upload is simply empty.
func readRecords(dir string, dims int, fn func(record) error) error {
	f, err := os.Open(filepath.Join(dir, DataStoreFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open data store: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		var idLen uint32
		if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read data store record: %w", err)
		}

		rec := record{
			id:     make([]byte, idLen),
			vector: make([]float32, dims),
		}
		if _, err := io.ReadFull(r, rec.id); err != nil {
			return fmt.Errorf("failed to read data store record: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, rec.vector); err != nil {
			return fmt.Errorf("failed to read data store record: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}
