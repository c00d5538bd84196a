package launcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/sessiond/pkg/capability"
)

func blockingMain(ctx context.Context) (any, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeTask struct {
	mu        sync.Mutex
	done      chan struct{}
	cancelled bool
}

func newFakeTask() *fakeTask {
	return &fakeTask{done: make(chan struct{})}
}

func (f *fakeTask) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeTask) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelled {
		return
	}
	f.cancelled = true
	close(f.done)
}

func (f *fakeTask) wasCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

func TestSupervisor_IsRunning_TrueBetweenStartAndStopEvents(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	require.NoError(t, sup.AddNowait("web", Descriptor{ExecStart: []Command{blockingMain}}))

	view := sup.Events().Subscribe()

	require.NoError(t, sup.Start("web").Wait(context.Background()))

	for {
		ev, err := view.Next(context.Background())
		require.NoError(t, err)
		if ev.Type == EventStart && ev.Name == "web" {
			break
		}
	}
	assert.True(t, sup.IsRunning("web"))

	require.NoError(t, sup.Stop("web").Wait(context.Background()))
	assert.False(t, sup.IsRunning("web"))
}

func TestSupervisor_After_OrdersStartEvents(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())

	require.NoError(t, sup.AddNowait("a", Descriptor{ExecStart: []Command{blockingMain}}))
	require.NoError(t, sup.AddNowait("b", Descriptor{
		ExecStart: []Command{blockingMain},
		After:     []string{"a"},
	}))

	view := sup.Events().Subscribe()

	startA := sup.Start("a")
	startB := sup.Start("b")

	require.NoError(t, startA.Wait(context.Background()))
	require.NoError(t, startB.Wait(context.Background()))

	var startOrder []string
	for len(startOrder) < 2 {
		ev, err := view.Next(context.Background())
		require.NoError(t, err)
		if ev.Type == EventStart {
			startOrder = append(startOrder, ev.Name)
		}
	}
	assert.Equal(t, []string{"a", "b"}, startOrder)
}

func TestSupervisor_BindsTo_PullsUpDependency(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())

	require.NoError(t, sup.AddNowait("cache", Descriptor{ExecStart: []Command{blockingMain}}))
	require.NoError(t, sup.AddNowait("app", Descriptor{
		ExecStart: []Command{blockingMain},
		BindsTo:   []string{"cache"},
	}))

	require.NoError(t, sup.Start("app").Wait(context.Background()))

	require.Eventually(t, func() bool { return sup.IsRunning("cache") }, time.Second, time.Millisecond)
	assert.True(t, sup.IsRunning("app"))
}

func TestSupervisor_Conflicts_StopsRunningConflict(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	noDeps := false

	require.NoError(t, sup.AddNowait("blue", Descriptor{
		ExecStart:           []Command{blockingMain},
		DefaultDependencies: &noDeps,
	}))
	require.NoError(t, sup.AddNowait("green", Descriptor{
		ExecStart:           []Command{blockingMain},
		Conflicts:           []string{"blue"},
		DefaultDependencies: &noDeps,
	}))

	require.NoError(t, sup.Start("blue").Wait(context.Background()))
	assert.True(t, sup.IsRunning("blue"))

	require.NoError(t, sup.Start("green").Wait(context.Background()))

	require.Eventually(t, func() bool { return !sup.IsRunning("blue") }, time.Second, time.Millisecond)
	assert.True(t, sup.IsRunning("green"))
}

func TestSupervisor_CapabilityUnit_GateWaitsForSet(t *testing.T) {
	reg := capability.NewRegistry()
	sup := NewSupervisor(reg)
	capType := Capability

	require.NoError(t, sup.AddNowait("db", Descriptor{
		Type:           &capType,
		CapabilityName: "example.Database",
		ExecStart: []Command{
			func(ctx context.Context) (any, error) {
				reg.Set("example.Database", "connected")
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	}))

	require.NoError(t, sup.Start("db").Wait(context.Background()))
	assert.True(t, sup.IsRunning("db"))
}

func TestSupervisor_CapabilityUnit_FailsWhenEventStreamEndsWithoutSet(t *testing.T) {
	reg := capability.NewRegistry()
	sup := NewSupervisor(reg)
	capType := Capability

	require.NoError(t, sup.AddNowait("db", Descriptor{
		Type:           &capType,
		CapabilityName: "example.Database",
		ExecStart:      []Command{blockingMain},
	}))

	reg.Events().Close()

	err := sup.Start("db").Wait(context.Background())
	assert.ErrorIs(t, err, ErrCapabilityNotSet)
	assert.False(t, sup.IsRunning("db"))
}

func TestSupervisor_ShutdownTarget_StopsDefaultDependencyUnits(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())

	require.NoError(t, sup.AddNowait("web", Descriptor{ExecStart: []Command{blockingMain}}))
	require.NoError(t, sup.Start("web").Wait(context.Background()))
	assert.True(t, sup.IsRunning("web"))

	sup.Start(ShutdownTarget)

	require.Eventually(t, func() bool { return !sup.IsRunning("web") }, time.Second, time.Millisecond)
}

func TestSupervisor_Remove_EmitsStopBeforeRemove(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())

	require.NoError(t, sup.AddNowait("web", Descriptor{ExecStart: []Command{blockingMain}}))
	require.NoError(t, sup.Start("web").Wait(context.Background()))

	view := sup.Events().Subscribe()

	require.NoError(t, sup.Remove(context.Background(), "web"))

	var sawStop, sawRemove bool
	for !sawRemove {
		ev, err := view.Next(context.Background())
		require.NoError(t, err)
		if ev.Name != "web" {
			continue
		}
		switch ev.Type {
		case EventStop:
			sawStop = true
		case EventRemove:
			require.True(t, sawStop, "REMOVE observed before STOP")
			sawRemove = true
		}
	}

	assert.False(t, sup.Contains("web"))
}

func TestSupervisor_RemoveNowait_FailsWhileRunning(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	require.NoError(t, sup.AddNowait("web", Descriptor{ExecStart: []Command{blockingMain}}))
	require.NoError(t, sup.Start("web").Wait(context.Background()))

	err := sup.RemoveNowait("web")
	assert.ErrorIs(t, err, ErrRunning)
}

func TestSupervisor_ConcurrentStart_ShareOneHandle(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	require.NoError(t, sup.AddNowait("web", Descriptor{ExecStart: []Command{blockingMain}}))

	first := sup.Start("web")
	second := sup.Start("web")

	assert.Same(t, first, second)
	require.NoError(t, first.Wait(context.Background()))
}

func TestSupervisor_ForkingUnit_MainIsReturnedTask(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	task := newFakeTask()
	forkingType := Forking

	require.NoError(t, sup.AddNowait("forked", Descriptor{
		Type: &forkingType,
		ExecStart: []Command{
			func(ctx context.Context) (any, error) { return task, nil },
		},
	}))

	require.NoError(t, sup.Start("forked").Wait(context.Background()))
	assert.True(t, sup.IsRunning("forked"))

	require.NoError(t, sup.Stop("forked").Wait(context.Background()))
	assert.True(t, task.wasCancelled())
}

func TestSupervisor_Stop_DuringStart_CancelsForkingTask(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	task := newFakeTask()
	forkingType := Forking

	require.NoError(t, sup.AddNowait("forked", Descriptor{
		Type: &forkingType,
		ExecStart: []Command{
			func(ctx context.Context) (any, error) { return task, nil },
		},
	}))

	startFuture := sup.Start("forked")
	stopFuture := sup.Stop("forked")

	require.NoError(t, stopFuture.Wait(context.Background()))
	require.NoError(t, startFuture.Wait(context.Background()))

	assert.False(t, sup.IsRunning("forked"))
	assert.True(t, task.wasCancelled())
}

func TestSupervisor_ForkingUnit_NonTaskResultFails(t *testing.T) {
	sup := NewSupervisor(capability.NewRegistry())
	forkingType := Forking

	require.NoError(t, sup.AddNowait("forked", Descriptor{
		Type: &forkingType,
		ExecStart: []Command{
			func(ctx context.Context) (any, error) { return "not a task", nil },
		},
	}))

	err := sup.Start("forked").Wait(context.Background())
	assert.Error(t, err)
	assert.False(t, sup.IsRunning("forked"))
}
