/*
Package catalog maintains the authoritative mapping of index name to
lifecycle state and metadata, in memory and mirrored on disk.

Every state transition goes through an atomic compare-and-set over the
in-memory map. Durable persistence uses one status file per index, written
via an atomic same-directory rename so a crash can never leave a torn state
name, plus an immutable metadata file written once at creation.

At startup Reconcile walks the indexes directory and reloads every index
whose persisted state is safe to resume (CREATED, UPLOADED, BUILT).
Everything else stays on disk, invisible to clients, until an operator
removes it.
*/
package catalog
