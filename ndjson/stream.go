package ndjson

import (
	"context"
	"io"
)

// Stream reads records from src and delivers them on the returned
// channel. The channel is closed once the source is exhausted, a
// ReadError record has been delivered, or ctx is cancelled.
//
// Records are only ever emitted at line boundaries, so cancellation
// never exposes a partially read line. Each call owns its own Reader;
// independent streams (e.g. a subprocess stdout and stderr pair) are
// fully isolated and safe to run on separate goroutines.
func Stream(ctx context.Context, src io.Reader, maxLineBytes int) <-chan Record {
	out := make(chan Record)
	go func() {
		defer close(out)
		r := NewReader(src, maxLineBytes)
		for {
			rec, ok := r.Next()
			if !ok {
				return
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
