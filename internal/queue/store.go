package queue

import "context"

// Store is the durable, process-shared area the producer and consumer
// communicate through. Implementations must make DrainAll atomic with
// respect to Append across OS processes: an entry appended while a drain is
// in flight is either part of that drain's batch or survives for the next
// one — never lost.
type Store interface {
	// Append adds one entry to the end of the pending sequence.
	Append(ctx context.Context, e Entry) error

	// DrainAll returns the whole pending sequence in append order and
	// atomically clears it. Draining an empty store returns an empty slice.
	DrainAll(ctx context.Context) ([]Entry, error)

	// WriteFile stores a binary payload in the shared directory under name
	// and returns its stable path.
	WriteFile(name string, data []byte) (string, error)

	// ReadFile loads a binary payload previously stored with WriteFile.
	ReadFile(path string) ([]byte, error)
}
