/*
Package runner hosts the engine worker - the single goroutine that owns
interpreter state - and the lifecycle machinery around it.

The worker loop interleaves three duties, in strict order per iteration:
drain every pending introspection task, then either feed the engine a line of
input (when it asked for one) or advance execution by one step, routing any
produced output to the output channel.

The package also provides the standard input producers (keyboard, voice) and
the input sanitizer they share. Producers run as ordinary goroutines and talk
to the worker only through the command queue.
*/
package runner
