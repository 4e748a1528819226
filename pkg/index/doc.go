/*
Package index implements the storage engine behind the index manager: the
append-only vector data store uploads write into, the builder that turns
uploaded vectors into a queryable on-disk index, the reader that answers
k-nearest-neighbour queries, and the LRU disk page cache shared by all
readers of a search-mode incarnation.

The shipped engine is a flat exact-scan index. The Builder and Reader
interfaces are what the index manager consumes, so a graph-based engine can
replace the flat one without touching the control plane.

# On-disk files per index

	vectors.bin    append-only (id, vector) records written by uploads
	index.bin      counted header + records, produced by the builder

Both use little-endian fixed layouts; the reader never parses vectors.bin.
*/
package index
