package queue

import "errors"

// ErrClosed is returned by Put, PutNowait, and Get once the queue has
// been closed and, for Get, its buffer drained. GetNowait returns it
// whenever the buffer is empty, whether or not the queue is closed.
var ErrClosed = errors.New("queue: closed")
