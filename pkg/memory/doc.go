/*
Package memory probes the host at boot and sizes the two memory pools that
compete for RAM: the index-building pool and the search-mode disk page cache.

On Linux the probe takes the smaller of physical RAM (/proc/meminfo) and any
cgroup v1 or v2 memory limit, so containerized deployments are sized by their
actual allowance rather than the machine underneath. On Windows it reads
ullTotalPhys from GlobalMemoryStatusEx. A probe result of 8 TiB or more is
treated as a misread and fails startup rather than guessing.

The derived numbers are computed once and surfaced as an immutable Budgets
value; nothing re-probes at runtime.
*/
package memory
