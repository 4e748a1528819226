package metrics

import (
	"time"

	"github.com/vladimir-zatsepin/vectoriadb/pkg/catalog"
	"github.com/vladimir-zatsepin/vectoriadb/pkg/types"
)

var allStates = []types.IndexState{
	types.IndexStateCreating,
	types.IndexStateCreated,
	types.IndexStateUploading,
	types.IndexStateUploaded,
	types.IndexStateInBuildQueue,
	types.IndexStateBuilding,
	types.IndexStateBuilt,
	types.IndexStateBroken,
}

// Collector samples the index catalog into the state gauges.
type Collector struct {
	catalog  *catalog.Catalog
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector creates a catalog sampler. A zero interval selects 15s.
func NewCollector(cat *catalog.Catalog, interval time.Duration) *Collector {
	if interval == 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		catalog:  cat,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	counts := make(map[types.IndexState]int)
	for _, state := range allStates {
		counts[state] = 0
	}
	for _, name := range c.catalog.ListNames("") {
		if state, ok := c.catalog.State(name); ok {
			counts[state]++
		}
	}
	for state, n := range counts {
		IndexesTotal.WithLabelValues(string(state)).Set(float64(n))
	}
}
