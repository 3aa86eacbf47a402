/*
Package ports defines the driven ports (interfaces) for the grue bridge.

These interfaces decouple the concurrency core from the external collaborators
it coordinates: the interpreter itself, and asynchronous input sources like a
speech recognizer.

# Key Interfaces

  - Engine: The single-threaded interpreter core (step/feed-line contract).
  - Recognizer: An asynchronous source of transcribed voice commands.
*/
package ports
