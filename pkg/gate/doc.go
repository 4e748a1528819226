/*
Package gate implements the drain barrier that serializes mode swaps and
shutdown against in-flight client operations.

The gate is a weighted semaphore with an effectively unbounded permit
budget. Client operations take one permit each and never wait; a drain takes
the whole budget, which can only succeed once every operation has finished.
While a drain is waiting, new operations are refused, so the barrier cannot
be starved.

The three drain flavors differ only in patience: TryDrain refuses
immediately (switch to build mode), DrainWithin gives up after a deadline
(switch to search mode), and DrainForever retries until it wins (shutdown).
A failed drain always leaves the semaphore untouched.
*/
package gate
