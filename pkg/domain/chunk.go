package domain

// Chunk is one unit of engine output. The payload is opaque to the bridge;
// only the consumer interprets formatting.
type Chunk struct {
	Bytes []byte

	// Fatal marks the chunk as the engine's final error report, emitted
	// just before end of stream so the consumer can display it.
	Fatal bool
}

// Text returns the payload as a string.
func (c Chunk) Text() string {
	return string(c.Bytes)
}
