/*
Package manager implements the VectoriaDB index manager: the control plane
that owns the lifecycle of every index on the node.

The manager is bimodal. In build mode it accepts index creation, streaming
vector uploads (bounded by a process-wide uploader budget) and build
triggers served by a single dedicated build worker. In search mode it
answers k-nearest-neighbour queries through lazily opened readers backed by
one shared disk page cache, and refuses every write.

# Drain barrier

Every client operation holds one permit of the operation gate while it
runs. Mode swaps and shutdown take the entire permit budget, which drains
in-flight work before the active mode is torn down and rebuilt:

	┌─────────┐  Enter/Leave   ┌───────────────┐
	│ clients ├───────────────▶│ operation gate │
	└─────────┘                └───────┬───────┘
	                              drain │ full budget
	                    ┌──────────────▼──────────────┐
	                    │ modeLock: shutdown old mode, │
	                    │ construct new mode, release  │
	                    └─────────────────────────────┘

Switching to search mode waits up to five seconds for the drain; switching
to build mode refuses unless the drain can be taken immediately; shutdown
retries every five seconds for as long as it takes. Operations arriving
while a drain is pending fail unavailable, as does everything after
shutdown.

# State persistence

All lifecycle transitions go through the catalog's compare-and-set and are
persisted to the per-index status file before the operation acknowledges.
An I/O failure after the in-memory flip marks the index BROKEN.
*/
package manager
