package gate

import (
	"context"
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/log"
	"golang.org/x/sync/semaphore"
)

// Budget is the total permit budget. Large enough that client operations
// never contend with each other; only a drain takes it all.
const Budget = 1 << 30

// Gate is the operation gate: every externally observable operation holds
// one permit while it runs, and mode swaps and shutdown acquire the entire
// budget to drain in-flight work before touching the active mode.
type Gate struct {
	sem *semaphore.Weighted
}

// New creates a gate with the full budget available.
func New() *Gate {
	return &Gate{sem: semaphore.NewWeighted(Budget)}
}

// Enter acquires one operation permit. It never blocks: while a drain is in
// progress or pending, Enter fails and the caller reports unavailable.
func (g *Gate) Enter() bool {
	return g.sem.TryAcquire(1)
}

// Leave releases one operation permit.
func (g *Gate) Leave() {
	g.sem.Release(1)
}

// TryDrain attempts to take the entire budget without waiting. On failure
// the semaphore is untouched.
func (g *Gate) TryDrain() bool {
	return g.sem.TryAcquire(Budget)
}

// DrainWithin waits up to the given duration for the entire budget. On
// timeout the semaphore is untouched.
func (g *Gate) DrainWithin(timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return g.sem.Acquire(ctx, Budget) == nil
}

// DrainForever takes the entire budget, retrying at the given interval for
// as long as it takes. Used by shutdown, which must win eventually.
func (g *Gate) DrainForever(retry time.Duration) {
	logger := log.WithComponent("gate")
	for {
		ctx, cancel := context.WithTimeout(context.Background(), retry)
		err := g.sem.Acquire(ctx, Budget)
		cancel()
		if err == nil {
			return
		}
		logger.Info().Dur("retry", retry).Msg("Waiting for in-flight operations to drain")
	}
}

// Release returns the entire budget after a successful drain.
func (g *Gate) Release() {
	g.sem.Release(Budget)
}
