package capability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Set_PublishesSetEvent(t *testing.T) {
	r := NewRegistry()
	view := r.Events().Subscribe()

	r.Set("db", 42)

	ev, err := view.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventSet, ev.Type)
	assert.Equal(t, "db", ev.Key)

	value, err := r.Get("db")
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestRegistry_Set_AlwaysPublishesEvenIfUnchanged(t *testing.T) {
	r := NewRegistry()
	r.Set("db", 42)

	view := r.Events().Subscribe()
	r.Set("db", 42)

	ev, err := view.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventSet, ev.Type)
}

func TestRegistry_Delete_PublishesDelEvent(t *testing.T) {
	r := NewRegistry()
	r.Set("db", 42)

	view := r.Events().Subscribe()
	r.Delete("db")

	ev, err := view.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventDel, ev.Type)
	assert.Equal(t, "db", ev.Key)

	_, err = r.Get("db")
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestRegistry_Delete_AbsentKey_StillPublishes(t *testing.T) {
	r := NewRegistry()
	view := r.Events().Subscribe()

	r.Delete("missing")

	ev, err := view.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, EventDel, ev.Type)
}

func TestRegistry_Pop_ReturnsPriorValue(t *testing.T) {
	r := NewRegistry()
	r.Set("db", 42)

	value, err := r.Pop("db")
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	_, err = r.Pop("db")
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestRegistry_PopOr_ReturnsDefaultWhenAbsent(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "fallback", r.PopOr("missing", "fallback"))
}

func TestRegistry_Provide_SetsAndReleasesLeavesKeyAbsent(t *testing.T) {
	r := NewRegistry()

	release, err := r.Provide("svc", "instance-1")
	require.NoError(t, err)

	value, err := r.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "instance-1", value)

	release()

	_, err = r.Get("svc")
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestRegistry_Provide_AlreadyEnabledWithDifferentValue(t *testing.T) {
	r := NewRegistry()
	_, err := r.Provide("svc", "instance-1")
	require.NoError(t, err)

	_, err = r.Provide("svc", "instance-2")
	assert.ErrorIs(t, err, ErrAlreadyEnabled)
}

func TestRegistry_Provide_Release_IsIdempotent(t *testing.T) {
	r := NewRegistry()
	release, err := r.Provide("svc", "instance-1")
	require.NoError(t, err)

	release()
	assert.NotPanics(t, func() { release() })
}

func TestRegistry_Provide_Release_SafeAfterEventQueueClosed(t *testing.T) {
	r := NewRegistry()
	release, err := r.Provide("svc", "instance-1")
	require.NoError(t, err)

	r.Events().Close()

	assert.NotPanics(t, func() { release() })

	_, err = r.Get("svc")
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestKeyOf_TypedKeysRoundTrip(t *testing.T) {
	type client struct{ name string }

	r := NewRegistry()
	r.Set(KeyOf[*client](), &client{name: "primary"})

	got, ok := Get[*client](r)
	require.True(t, ok)
	assert.Equal(t, "primary", got.name)

	_, ok = Get[*int](r)
	assert.False(t, ok)
}
