/*
Package types defines the core data structures used throughout VectoriaDB.

This package contains the fundamental types of the index lifecycle: the
IndexState machine persisted in per-index status files, the distance-metric
names persisted in metadata files, and the build-progress snapshots that are
broadcast to streaming clients.

# Index lifecycle

An index moves through the following states:

	CREATING → CREATED → (UPLOADING → UPLOADED)? → IN_BUILD_QUEUE → BUILDING → BUILT
	                     any unrecoverable failure → BROKEN

Only CREATED, UPLOADED and BUILT survive a restart; every in-flight state is
skipped by the startup reconciler and the directory is left for the operator.
*/
package types
