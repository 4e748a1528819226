package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

const (
	// StatusFileName is the per-index file holding the current state name.
	StatusFileName = "status"

	// MetadataFileName is the per-index file holding the distance name.
	MetadataFileName = "metadata"
)

// WriteStatus durably writes the state name into the index status file. The
// write goes to a temp file in the same directory which is then renamed over
// the status file, so a crash leaves either the old or the new state, never
// a torn write. If the rename refuses to replace the target, the target is
// removed and the rename retried.
func WriteStatus(dir string, state types.IndexState) error {
	tmp, err := os.CreateTemp(dir, StatusFileName+"-*")
	if err != nil {
		return fmt.Errorf("failed to create status temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(string(state)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write status temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync status temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close status temp file: %w", err)
	}

	target := filepath.Join(dir, StatusFileName)
	if err := os.Rename(tmpName, target); err != nil {
		// Non-atomic fallback for filesystems that refuse to replace.
		if rmErr := os.Remove(target); rmErr != nil && !os.IsNotExist(rmErr) {
			os.Remove(tmpName)
			return fmt.Errorf("failed to replace status file: %w", err)
		}
		if err := os.Rename(tmpName, target); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("failed to move status file into place: %w", err)
		}
	}
	return nil
}

// ReadStatus reads and parses the index status file.
func ReadStatus(dir string) (types.IndexState, error) {
	data, err := os.ReadFile(filepath.Join(dir, StatusFileName))
	if err != nil {
		return "", fmt.Errorf("failed to read status file: %w", err)
	}
	return types.ParseIndexState(string(data))
}

// WriteMetadata writes the distance name into the index metadata file. The
// file is written exactly once per index: create-new semantics, then sync.
func WriteMetadata(dir string, distance types.Distance) error {
	f, err := os.OpenFile(filepath.Join(dir, MetadataFileName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if _, err := f.WriteString(string(distance)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write metadata file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync metadata file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close metadata file: %w", err)
	}
	return nil
}

// ReadMetadata reads and parses the index metadata file.
func ReadMetadata(dir string) (types.Distance, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return "", fmt.Errorf("failed to read metadata file: %w", err)
	}
	return types.ParseDistance(string(data))
}
