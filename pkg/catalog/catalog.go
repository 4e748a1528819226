package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/rs/zerolog"
)

// Catalog is the in-memory mapping of index name to state and metadata. All
// state transitions go through compare-and-set so concurrent operations
// observe a single winner; the loser sees the state the winner installed.
type Catalog struct {
	mu       sync.RWMutex
	states   map[string]types.IndexState
	metadata map[string]types.IndexMetadata
	logger   zerolog.Logger
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		states:   make(map[string]types.IndexState),
		metadata: make(map[string]types.IndexMetadata),
		logger:   log.WithComponent("catalog"),
	}
}

// InsertIfAbsent adds a new index in the given state. Returns false when the
// name is already taken.
func (c *Catalog) InsertIfAbsent(name string, state types.IndexState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.states[name]; ok {
		return false
	}
	c.states[name] = state
	return true
}

// State returns the current state of an index.
func (c *Catalog) State(name string) (types.IndexState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state, ok := c.states[name]
	return state, ok
}

// CompareAndSet atomically flips the state from exactly `from` to `to`.
func (c *Catalog) CompareAndSet(name string, from, to types.IndexState) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.states[name] != from {
		return false
	}
	c.states[name] = to
	return true
}

// CompareAndSetAny flips the state to `to` if the current state is any of
// `from`. Returns the state observed at decision time.
func (c *Catalog) CompareAndSetAny(name string, from []types.IndexState, to types.IndexState) (bool, types.IndexState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.states[name]
	if !ok {
		return false, ""
	}
	for _, f := range from {
		if current == f {
			c.states[name] = to
			return true, current
		}
	}
	return false, current
}

// ForceState unconditionally sets the state of an existing index. Used for
// the BROKEN transitions that terminate failed operations.
func (c *Catalog) ForceState(name string, state types.IndexState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.states[name]; ok {
		c.states[name] = state
	}
}

// Remove deletes the state entry for an index.
func (c *Catalog) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.states, name)
}

// PutMetadata records the immutable metadata of an index.
func (c *Catalog) PutMetadata(name string, md types.IndexMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[name] = md
}

// Metadata returns the metadata of an index.
func (c *Catalog) Metadata(name string) (types.IndexMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	md, ok := c.metadata[name]
	return md, ok
}

// RemoveMetadata deletes the metadata entry for an index.
func (c *Catalog) RemoveMetadata(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.metadata, name)
}

// ListNames returns the sorted names of all indexes not in the given state.
func (c *Catalog) ListNames(excluding types.IndexState) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.states))
	for name, state := range c.states {
		if state != excluding {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// TransitionPersist performs a compare-and-set and, when it wins, durably
// persists the new state to the index status file before returning. A
// persistence failure after the in-memory flip marks the index BROKEN (and
// persists that, best effort) so the catalog never advertises a state the
// disk may not reflect.
func (c *Catalog) TransitionPersist(name string, from, to types.IndexState) (bool, error) {
	if !c.CompareAndSet(name, from, to) {
		return false, nil
	}
	if err := c.persist(name, to); err != nil {
		return true, err
	}
	return true, nil
}

// MarkBrokenPersist forces an index to BROKEN and persists the change, best
// effort.
func (c *Catalog) MarkBrokenPersist(name string) {
	c.ForceState(name, types.IndexStateBroken)
	md, ok := c.Metadata(name)
	if !ok {
		return
	}
	if err := WriteStatus(md.Dir, types.IndexStateBroken); err != nil {
		c.logger.Error().Err(err).Str("index", name).Msg("Failed to persist BROKEN state")
	}
}

func (c *Catalog) persist(name string, state types.IndexState) error {
	md, ok := c.Metadata(name)
	if !ok {
		return fmt.Errorf("no metadata for index %q", name)
	}
	if err := WriteStatus(md.Dir, state); err != nil {
		c.MarkBrokenPersist(name)
		return fmt.Errorf("failed to persist state %s for index %q: %w", state, name, err)
	}
	return nil
}
