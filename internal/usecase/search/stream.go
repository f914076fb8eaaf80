package search

import (
	"context"

	"github.com/hireloop/matchdex/internal/domain/search/hit"
)

// Event is one element of a search stream: a chunk of ranked hits, or
// the terminal metadata record. Exactly one field is set.
type Event struct {
	Hits []hit.Scored
	Meta *hit.Metadata
}

// Stream emits the outcome's hits in ranked order, chunked, followed by
// a single terminal metadata event, then closes the channel. A canceled
// context stops the stream early without the terminal event.
func (o *Outcome) Stream(ctx context.Context, chunkSize int) <-chan Event {
	if chunkSize <= 0 {
		chunkSize = len(o.Hits)
		if chunkSize == 0 {
			chunkSize = 1
		}
	}

	out := make(chan Event)
	go func() {
		defer close(out)

		for start := 0; start < len(o.Hits); start += chunkSize {
			end := start + chunkSize
			if end > len(o.Hits) {
				end = len(o.Hits)
			}
			select {
			case out <- Event{Hits: o.Hits[start:end]}:
			case <-ctx.Done():
				return
			}
		}

		// A caller that disconnected mid-stream gets no terminal record.
		if ctx.Err() != nil {
			return
		}
		meta := o.Meta
		select {
		case out <- Event{Meta: &meta}:
		case <-ctx.Done():
		}
	}()
	return out
}
