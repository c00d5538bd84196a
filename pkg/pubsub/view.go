package pubsub

import "context"

// View is an independent cursor over a Queue's values. Each View
// observes every value published after it was created, in
// publication order, regardless of how many other Views exist or how
// far they have advanced.
//
// A View is not safe for concurrent use from multiple goroutines: like
// the original design's single-reader assumption, one cursor is meant
// to be driven by one reader.
type View[T any] struct {
	cursor *node[T]
}

// Next blocks until the next value is published, the queue is closed,
// or ctx is done. On success it advances the cursor past the returned
// value. Once the end of the queue has been reached, every subsequent
// call returns ErrEndReached.
func (v *View[T]) Next(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-v.cursor.ready:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	state, value, next := v.cursor.snapshot()
	if state == stateEnd {
		return zero, ErrEndReached
	}
	v.cursor = next
	return value, nil
}
