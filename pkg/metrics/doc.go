/*
Package metrics provides Prometheus metrics for VectoriaDB.

Gauges track the catalog by state and uploads in flight, counters and
histograms cover the build pipeline, query serving and the RPC surface.
Everything registers once at init and is served by Handler on the HTTP
listener next to the health endpoints.
*/
package metrics
