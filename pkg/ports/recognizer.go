package ports

// Recognizer is an asynchronous speech recognition source.
//
// The bridge never interprets transcriptions; it only forwards them into the
// command queue at voice priority.
type Recognizer interface {
	// Results delivers final transcriptions, one utterance per string.
	// The channel is closed when the recognizer shuts down.
	Results() <-chan string
}
