/*
Package progress broadcasts index-build progress to streaming clients.

The build worker reports phases and completion percentages into the Tracker;
every five seconds the tracker sends a snapshot to each subscribed listener.
Listeners deregister themselves by returning an error from Notify — the
Done sentinel for a clean client-side cancellation, anything else for a
transport failure.
*/
package progress
