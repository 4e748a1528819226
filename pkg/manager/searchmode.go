package manager

import (
	"context"
	"sync"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/config"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/index"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/metrics"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/progress"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SearchMode answers k-NN queries against built indexes. All write
// operations are refused. The mode owns one disk page cache, sized from the
// search memory pool, shared by every reader it opens.
type SearchMode struct {
	mgr    *Manager
	logger zerolog.Logger
	cache  *index.DiskCache

	mu      sync.Mutex
	readers map[string]index.Reader
}

func newSearchMode(m *Manager) *SearchMode {
	return &SearchMode{
		mgr:     m,
		logger:  log.WithComponent("search-mode"),
		cache:   index.NewDiskCache(m.budgets.DiskCache),
		readers: make(map[string]index.Reader),
	}
}

// Kind reports the mode selector for swap idempotence checks.
func (s *SearchMode) Kind() config.Mode {
	return config.ModeSearch
}

func errSearchMode() error {
	return status.Error(codes.PermissionDenied, "Index manager is in search mode")
}

// CreateIndex is refused while serving queries.
func (s *SearchMode) CreateIndex(context.Context, string, types.Distance) error {
	return errSearchMode()
}

// TriggerBuild is refused while serving queries.
func (s *SearchMode) TriggerBuild(string) error {
	return errSearchMode()
}

// NewUploadSession is refused while serving queries.
func (s *SearchMode) NewUploadSession() (*UploadSession, error) {
	return nil, errSearchMode()
}

// SubscribeBuildStatus is refused while serving queries.
func (s *SearchMode) SubscribeBuildStatus(progress.Listener) (int, error) {
	return 0, errSearchMode()
}

// FindNearestNeighbours answers a k-NN query against a BUILT index. The
// reader is opened lazily on the first query for the index and kept for the
// lifetime of the mode.
func (s *SearchMode) FindNearestNeighbours(ctx context.Context, name string, k int, query []float32) ([][]byte, error) {
	state, ok := s.mgr.catalog.State(name)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "index %q does not exist", name)
	}
	if state != types.IndexStateBuilt {
		return nil, status.Errorf(codes.FailedPrecondition,
			"index %q is not queryable in state %s", name, state)
	}

	reader, err := s.reader(name)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to open index %q: %v", name, err)
	}

	// The query is copied into a buffer of the configured dimensionality;
	// short queries are zero-padded, long ones truncated.
	buf := make([]float32, s.mgr.cfg.VectoriaDB.Index.Dimensions)
	copy(buf, query)

	timer := metrics.NewTimer()
	ids, err := reader.NearestNeighbours(ctx, buf, k)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "query against index %q failed: %v", name, err)
	}
	timer.ObserveDuration(metrics.QueryDuration)
	metrics.QueriesTotal.Inc()
	return ids, nil
}

func (s *SearchMode) reader(name string) (index.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.readers[name]; ok {
		return r, nil
	}

	md, ok := s.mgr.catalog.Metadata(name)
	if !ok {
		return nil, status.Errorf(codes.Internal, "no metadata for index %q", name)
	}

	r, err := index.OpenReader(md.Dir, md.Distance, s.mgr.buildParams(), s.cache)
	if err != nil {
		return nil, err
	}
	s.readers[name] = r
	return r, nil
}

// DropIndex deletes a BUILT index through its reader.
func (s *SearchMode) DropIndex(name string) error {
	state, ok := s.mgr.catalog.State(name)
	if !ok {
		return status.Errorf(codes.NotFound, "index %q does not exist", name)
	}
	if state != types.IndexStateBuilt {
		return status.Errorf(codes.FailedPrecondition,
			"index %q cannot be dropped from state %s", name, state)
	}

	reader, err := s.reader(name)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to open index %q: %v", name, err)
	}
	if err := reader.DeleteIndex(); err != nil {
		return status.Errorf(codes.Internal, "failed to delete index %q: %v", name, err)
	}

	s.mu.Lock()
	delete(s.readers, name)
	s.mu.Unlock()

	s.mgr.catalog.Remove(name)
	s.mgr.catalog.RemoveMetadata(name)
	s.logger.Info().Str("index", name).Msg("Index dropped")
	return nil
}

// Shutdown closes every open reader, then the shared cache.
func (s *SearchMode) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, r := range s.readers {
		if err := r.Close(); err != nil {
			s.logger.Warn().Err(err).Str("index", name).Msg("Failed to close index reader")
		}
		delete(s.readers, name)
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close disk cache")
	}
}
