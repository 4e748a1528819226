/*
Package client wraps the IndexManager gRPC client for the vectoriadb CLI
and for integration tests: one method per RPC, plus a polling helper for
waiting on index state transitions.
*/
package client
