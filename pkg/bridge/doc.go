/*
Package bridge implements the synchronized channels between the engine worker
and everything else: the bounded priority command queue, the bounded output
channel, and the introspection bridge.

These three are the only shared mutable objects in the system. Engine state
itself is owned exclusively by the worker goroutine; all cross-goroutine data
exchange happens by value through this package.

# Backpressure

Both queues block rather than drop when full. A too-fast producer is slowed
down; output is never silently lost. Timeouts are deliberately not applied
here - cancellation and shutdown policy live in the runner layer.
*/
package bridge
