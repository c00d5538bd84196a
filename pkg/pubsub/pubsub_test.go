package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_SubscribersBeforePublish_SeeIdenticalSequence(t *testing.T) {
	q := NewQueue[int]()

	viewA := q.Subscribe()
	viewB := q.Subscribe()

	for i := 1; i <= 3; i++ {
		q.Publish(i)
	}
	q.Close()

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		gotA, err := viewA.Next(ctx)
		require.NoError(t, err)
		gotB, err := viewB.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, gotA)
		assert.Equal(t, i, gotB)
	}

	_, errA := viewA.Next(ctx)
	_, errB := viewB.Next(ctx)
	assert.ErrorIs(t, errA, ErrEndReached)
	assert.ErrorIs(t, errB, ErrEndReached)
}

func TestQueue_LateSubscriber_SeesOnlyFuturePublishes(t *testing.T) {
	q := NewQueue[string]()

	q.Publish("a")
	q.Publish("b")

	late := q.Subscribe()

	q.Publish("c")
	q.Close()

	ctx := context.Background()
	got, err := late.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", got)

	_, err = late.Next(ctx)
	assert.ErrorIs(t, err, ErrEndReached)
}

func TestView_Next_BlocksUntilPublish(t *testing.T) {
	q := NewQueue[int]()
	view := q.Subscribe()

	done := make(chan struct{})
	var got int
	go func() {
		defer close(done)
		var err error
		got, err = view.Next(context.Background())
		assert.NoError(t, err)
	}()

	select {
	case <-done:
		t.Fatal("Next returned before Publish")
	case <-time.After(20 * time.Millisecond):
	}

	q.Publish(42)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Publish")
	}
	assert.Equal(t, 42, got)
}

func TestView_Next_RespectsContextCancellation(t *testing.T) {
	q := NewQueue[int]()
	view := q.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := view.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_Close_IsIdempotent(t *testing.T) {
	q := NewQueue[int]()
	view := q.Subscribe()

	q.Close()
	assert.NotPanics(t, func() { q.Close() })

	_, err := view.Next(context.Background())
	assert.ErrorIs(t, err, ErrEndReached)
}

func TestQueue_Publish_AfterClose_Panics(t *testing.T) {
	q := NewQueue[int]()
	q.Close()

	assert.Panics(t, func() { q.Publish(1) })
}

func TestQueue_MultipleSubscribers_IndependentCursors(t *testing.T) {
	q := NewQueue[int]()
	viewA := q.Subscribe()

	q.Publish(1)

	viewB := q.Subscribe()
	q.Publish(2)
	q.Close()

	ctx := context.Background()

	gotA1, err := viewA.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, gotA1)

	gotB1, err := viewB.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gotB1)

	gotA2, err := viewA.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gotA2)

	_, err = viewA.Next(ctx)
	assert.ErrorIs(t, err, ErrEndReached)
	_, err = viewB.Next(ctx)
	assert.ErrorIs(t, err, ErrEndReached)
}
