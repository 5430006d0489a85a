package store

import "context"

// Sink receives generated documents.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
	// Location describes where name ends up, for reporting.
	Location(name string) string
}
