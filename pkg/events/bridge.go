package events

import (
	"context"
	"sync"

	"github.com/cuemby/sessiond/pkg/pubsub"
)

// subscriberBuffer is the per-subscriber channel capacity. A slow
// subscriber drops events past this point rather than blocking the
// bridge's broadcast loop.
const subscriberBuffer = 50

// Bridge fans a pubsub.Queue out to any number of plain Go channels,
// for consumers (a CLI event feed, a GUI bridge) that prefer select
// ergonomics over the pull-based View.Next API.
type Bridge[T any] struct {
	mu          sync.RWMutex
	subscribers map[chan T]bool
	done        chan struct{}
}

// NewBridge subscribes to queue and starts fanning out events until
// ctx is cancelled or the queue is closed.
func NewBridge[T any](ctx context.Context, queue *pubsub.Queue[T]) *Bridge[T] {
	b := &Bridge[T]{
		subscribers: make(map[chan T]bool),
		done:        make(chan struct{}),
	}
	view := queue.Subscribe()
	go b.run(ctx, view)
	return b
}

func (b *Bridge[T]) run(ctx context.Context, view *pubsub.View[T]) {
	defer close(b.done)
	for {
		value, err := view.Next(ctx)
		if err != nil {
			return
		}
		b.broadcast(value)
	}
}

func (b *Bridge[T]) broadcast(value T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers {
		select {
		case sub <- value:
		default:
			// Subscriber buffer full, skip.
		}
	}
}

// Subscribe creates a new subscription and returns its channel.
func (b *Bridge[T]) Subscribe() chan T {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan T, subscriberBuffer)
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes and closes a subscription.
func (b *Bridge[T]) Unsubscribe(sub chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[sub] {
		delete(b.subscribers, sub)
		close(sub)
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bridge[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Done is closed once the bridge's source queue ends or its context
// is cancelled.
func (b *Bridge[T]) Done() <-chan struct{} {
	return b.done
}
