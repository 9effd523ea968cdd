package progress

import "context"

// Sink receives events from the Hub. Implementations must tolerate being
// called from a single background goroutine and should return quickly; slow
// sinks are cut off by the Hub's per-sink timeout.
type Sink interface {
	Consume(ctx context.Context, evt Event) error
	Close(ctx context.Context) error
}
