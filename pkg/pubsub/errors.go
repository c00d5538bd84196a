package pubsub

import "errors"

// ErrEndReached is returned by View.Next once the queue producing it
// has been closed and every published value has been consumed.
var ErrEndReached = errors.New("pubsub: end of queue reached")
