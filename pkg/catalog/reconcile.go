package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

// Reconcile scans the indexes directory and repopulates the catalog from the
// per-index status and metadata files. This is the only path that admits
// historical on-disk state.
//
// Indexes whose status file records an in-flight or terminal state
// (CREATING, UPLOADING, IN_BUILD_QUEUE, BUILDING, BROKEN) are skipped: an
// unclean restart cannot resume them. Their directories are left untouched
// for the operator to remove.
func (c *Catalog) Reconcile(indexesDir string) error {
	entries, err := os.ReadDir(indexesDir)
	if err != nil {
		return fmt.Errorf("failed to list indexes directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		dir := filepath.Join(indexesDir, name)

		state, err := ReadStatus(dir)
		if err != nil {
			c.logger.Error().Err(err).Str("index", name).Msg("Skipping index with unreadable status file")
			continue
		}
		if !state.Recoverable() {
			c.logger.Warn().Str("index", name).Str("state", string(state)).
				Msg("Skipping index left in a non-recoverable state")
			continue
		}

		distance, err := ReadMetadata(dir)
		if err != nil {
			c.logger.Error().Err(err).Str("index", name).Msg("Skipping index with unreadable metadata file")
			continue
		}

		c.mu.Lock()
		c.states[name] = state
		c.metadata[name] = types.IndexMetadata{Distance: distance, Dir: dir}
		c.mu.Unlock()

		c.logger.Info().Str("index", name).Str("state", string(state)).Msg("Recovered index from disk")
	}
	return nil
}
