package api

import (
	"sync"

	"github.com/vladimir-zatsepin/vectoriadb/api/proto"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/progress"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

// streamListener adapts a BuildStatus server stream to a progress listener.
// Every tick it forwards the snapshot to the client; when the client
// cancels, it stops sending and completes the stream on that tick. A
// transport error removes the listener and fails the stream.
type streamListener struct {
	stream proto.IndexManager_BuildStatusServer

	once sync.Once
	done chan struct{}
	err  error
}

func newStreamListener(stream proto.IndexManager_BuildStatusServer) *streamListener {
	return &streamListener{
		stream: stream,
		done:   make(chan struct{}),
	}
}

// Notify implements progress.Listener on the tracker tick.
func (l *streamListener) Notify(snapshot types.BuildProgress) error {
	if l.stream.Context().Err() != nil {
		l.finish(nil)
		return progress.Done()
	}

	if err := l.stream.Send(buildStatusToProto(snapshot)); err != nil {
		l.finish(err)
		return err
	}
	return nil
}

func (l *streamListener) finish(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.done)
	})
}

// wait blocks until the listener finished; a nil result completes the
// stream cleanly.
func (l *streamListener) wait() error {
	<-l.done
	return l.err
}

func buildStatusToProto(snapshot types.BuildProgress) *proto.BuildStatusResponse {
	resp := &proto.BuildStatusResponse{IndexName: snapshot.IndexName}
	for _, phase := range snapshot.Phases {
		resp.Phases = append(resp.Phases, &proto.BuildPhase{
			Name:                 phase.Name,
			CompletionPercentage: phase.Completion,
			Parameters:           phase.Parameters,
		})
	}
	return resp
}
