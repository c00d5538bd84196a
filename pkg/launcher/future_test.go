package launcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFuture_Wait_ReturnsResolvedError(t *testing.T) {
	f := newFuture(nil)
	wantErr := errors.New("boom")
	f.resolve(wantErr)

	err := f.Wait(context.Background())
	assert.Equal(t, wantErr, err)
}

func TestFuture_Wait_RespectsContext(t *testing.T) {
	f := newFuture(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFuture_Join_IgnoresResolutionError(t *testing.T) {
	f := newFuture(nil)
	f.resolve(errors.New("doesn't matter"))

	err := f.Join(context.Background())
	assert.NoError(t, err)
}

func TestFuture_CancelAndWait_TreatsCancelledAsSuccess(t *testing.T) {
	var cancelled bool
	f := newFuture(func() { cancelled = true })

	go func() {
		f.resolve(context.Canceled)
	}()

	err := f.CancelAndWait()
	assert.NoError(t, err)
	assert.True(t, cancelled)
}

func TestFuture_CancelAndWait_PropagatesOtherErrors(t *testing.T) {
	f := newFuture(func() {})

	go func() {
		f.resolve(errors.New("exec_start failed"))
	}()

	err := f.CancelAndWait()
	assert.EqualError(t, err, "exec_start failed")
}
