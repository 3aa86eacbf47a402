/*
Package domain contains the core value types of the grue bridge.

It defines the entities exchanged between input producers, the engine worker,
and output consumers: Commands, output Chunks, and the sentinel errors that
mark queue and lifecycle boundaries. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Command: One submitted line of input with source and priority metadata.
  - Chunk: One unit of opaque engine output.
  - Hooks: Optional observability callbacks fed by the bridge hot paths.
*/
package domain
