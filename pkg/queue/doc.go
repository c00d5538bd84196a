/*
Package queue implements CancellableQueue, a FIFO with a Close that
wakes every reader blocked waiting for an item instead of leaving them
parked forever.

Put and PutNowait append to the buffer; Get suspends until an item is
available or the queue closes. Closing drains whatever was already
buffered before readers start observing ErrClosed, so no value queued
before Close is lost.

The queue assumes a single reader, mirroring the originating design:
behavior under concurrent Get calls is unspecified, though Put/PutNowait
remain safe to call from any goroutine.
*/
package queue
