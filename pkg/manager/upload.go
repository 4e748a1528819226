package manager

import (
	"sync"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/catalog"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/index"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UploadSession is the per-stream state of one uploadVectors call: which
// index the stream bound itself to with its first chunk, and the open data
// store receiving its vectors. Chunks are processed in arrival order under
// the session lock; the session is never shared across streams.
//
// The session holds one gate permit from creation until Complete or Abort,
// released exactly once.
type UploadSession struct {
	mode   *BuildMode
	logger zerolog.Logger

	mu         sync.Mutex
	started    bool
	terminated bool
	name       string
	store      *index.DataStore

	release     func()
	releaseOnce sync.Once
}

func newUploadSession(b *BuildMode) *UploadSession {
	return &UploadSession{
		mode:   b,
		logger: log.WithSession(uuid.New().String()),
	}
}

func (s *UploadSession) releasePermit() {
	s.releaseOnce.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// Chunk ingests one (vector, id) record. The first chunk binds the session
// to its index name; every later chunk must carry the same name. An error
// terminates the stream: the caller reports it to the client and then calls
// Abort.
func (s *UploadSession) Chunk(name string, components []float32, id []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return status.Error(codes.FailedPrecondition, "upload session already terminated")
	}

	dims := s.mode.mgr.cfg.VectoriaDB.Index.Dimensions
	if len(components) != dims {
		return status.Errorf(codes.InvalidArgument,
			"vector has %d components, index requires %d", len(components), dims)
	}

	if !s.started {
		if err := s.begin(name); err != nil {
			return err
		}
	} else {
		if name != s.name {
			return status.Errorf(codes.FailedPrecondition,
				"chunk for index %q on a stream bound to %q", name, s.name)
		}
		if state, _ := s.mode.mgr.catalog.State(s.name); state != types.IndexStateUploading {
			return status.Errorf(codes.FailedPrecondition,
				"index %q is no longer uploading (state %s)", s.name, state)
		}
	}

	if err := s.store.Append(components, id); err != nil {
		s.mode.mgr.catalog.MarkBrokenPersist(s.name)
		return status.Errorf(codes.Internal, "failed to store vector: %v", err)
	}
	return nil
}

// begin binds the session to an index on its first chunk.
func (s *UploadSession) begin(name string) error {
	cat := s.mode.mgr.catalog

	if !cat.CompareAndSet(name, types.IndexStateCreated, types.IndexStateUploading) {
		state, ok := cat.State(name)
		if !ok {
			return status.Errorf(codes.FailedPrecondition, "index %q does not exist", name)
		}
		return status.Errorf(codes.FailedPrecondition,
			"index %q cannot accept uploads in state %s", name, state)
	}

	if !s.mode.uploaderSlot(name) {
		// Capacity refusals leave no trace: the state rolls straight back.
		cat.CompareAndSet(name, types.IndexStateUploading, types.IndexStateCreated)
		return status.Errorf(codes.ResourceExhausted,
			"too many uploads in flight (limit %d)", maxUploaders)
	}

	md, ok := cat.Metadata(name)
	if !ok {
		s.mode.releaseUploaderSlot(name)
		cat.MarkBrokenPersist(name)
		return status.Errorf(codes.Internal, "no metadata for index %q", name)
	}

	store, err := index.NewDataStore(md.Dir, s.mode.mgr.cfg.VectoriaDB.Index.Dimensions)
	if err != nil {
		s.mode.releaseUploaderSlot(name)
		cat.MarkBrokenPersist(name)
		return status.Errorf(codes.Internal, "failed to open data store: %v", err)
	}

	if err := catalog.WriteStatus(md.Dir, types.IndexStateUploading); err != nil {
		store.Close()
		s.mode.releaseUploaderSlot(name)
		cat.MarkBrokenPersist(name)
		return status.Errorf(codes.Internal, "failed to persist uploading state: %v", err)
	}

	s.started = true
	s.name = name
	s.store = store
	s.logger.Info().Str("index", name).Msg("Upload session started")
	return nil
}

// Complete finishes the stream: the data store is closed and the index
// becomes UPLOADED. The gate permit is released on every path.
func (s *UploadSession) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.releasePermit()

	if s.terminated {
		return nil
	}
	s.terminated = true

	if !s.started {
		// A stream that never sent a chunk completes without effect.
		return nil
	}

	cat := s.mode.mgr.catalog
	if err := s.store.Close(); err != nil {
		s.mode.releaseUploaderSlot(s.name)
		cat.MarkBrokenPersist(s.name)
		return status.Errorf(codes.Internal, "failed to close data store: %v", err)
	}
	s.mode.releaseUploaderSlot(s.name)

	ok, err := cat.TransitionPersist(s.name, types.IndexStateUploading, types.IndexStateUploaded)
	if err != nil {
		return status.Errorf(codes.Internal, "failed to persist uploaded state: %v", err)
	}
	if !ok {
		state, _ := cat.State(s.name)
		return status.Errorf(codes.FailedPrecondition,
			"index %q left uploading state (now %s)", s.name, state)
	}

	s.logger.Info().Str("index", s.name).Msg("Upload session completed")
	return nil
}

// Abort terminates the stream after a client error or a fatal chunk. An
// active session leaves its index BROKEN; a session that never bound to an
// index only gives back its permit.
func (s *UploadSession) Abort(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.releasePermit()

	if s.terminated {
		return
	}
	s.terminated = true

	if !s.started {
		return
	}

	s.logger.Error().Err(cause).Str("index", s.name).Msg("Upload session failed")
	s.mode.mgr.catalog.MarkBrokenPersist(s.name)
	s.mode.releaseUploaderSlot(s.name)
	if err := s.store.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to close data store after aborted upload")
	}
}
