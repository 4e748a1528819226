/*
Package api exposes the index manager over gRPC, plus the HTTP health and
metrics endpoints.

The gRPC server translates wire requests into manager operations and passes
the manager's status errors straight through, so clients see the precise
error codes of the control plane: NOT_FOUND for unknown indexes,
FAILED_PRECONDITION for wrong-state operations, RESOURCE_EXHAUSTED when the
uploader budget is full, PERMISSION_DENIED for writes in search mode and
UNAVAILABLE behind a mode swap or after shutdown.

Two RPCs stream: UploadVectors (client stream of vector chunks, one ack or
one error at termination) and BuildStatus (server stream of build-progress
snapshots on the tracker tick, completed cleanly when the client cancels).
*/
package api
