package launcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuemby/sessiond/pkg/capability"
	"github.com/cuemby/sessiond/pkg/pubsub"
)

// commandMain runs a unit's ExecStart (and, by extension, ExecStop)
// command sequence as a background goroutine and satisfies Task. It
// is the "main" for Simple, Exec, and Capability units; Forking units
// use whatever Task their last ExecStart command returns instead.
type commandMain struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (m *commandMain) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *commandMain) Cancel() {
	m.cancel()
}

func runCommandLines(ctx context.Context, commands []Command) (any, error) {
	var result any
	for _, cmd := range commands {
		value, err := cmd(ctx)
		if err != nil {
			return nil, err
		}
		result = value
	}
	return result, nil
}

// startSimple launches commands in the background and is considered
// started as soon as the goroutine has been scheduled; there is no
// extra gate.
func startSimple(mainCtx context.Context, mainCancel context.CancelFunc, commands []Command) *commandMain {
	m := &commandMain{cancel: mainCancel, done: make(chan struct{})}
	go func() {
		defer close(m.done)
		_, err := runCommandLines(mainCtx, commands)
		m.err = err
	}()
	return m
}

// startExec launches commands in the background and blocks until the
// goroutine has begun running, the closest Go analogue of "yield once
// so the coroutine gets a chance to run and suspend" in a
// preemptively scheduled runtime.
func startExec(mainCtx context.Context, mainCancel context.CancelFunc, commands []Command) *commandMain {
	m := &commandMain{cancel: mainCancel, done: make(chan struct{})}
	started := make(chan struct{})
	go func() {
		close(started)
		defer close(m.done)
		_, err := runCommandLines(mainCtx, commands)
		m.err = err
	}()
	<-started
	return m
}

// startForking runs commands synchronously in the caller: a Forking
// unit's ExecStart must itself return the Task that becomes the
// unit's real main, so there is nothing to gate on in the background.
func startForking(mainCtx context.Context, commands []Command) (Task, error) {
	result, err := runCommandLines(mainCtx, commands)
	if err != nil {
		return nil, err
	}
	task, ok := result.(Task)
	if !ok {
		return nil, fmt.Errorf("launcher: forking unit's ExecStart did not return a Task, got %T", result)
	}
	return task, nil
}

// startCapability launches commands like startSimple but does not
// return until the expected capability has been SET on registry,
// subscribing to the capability event bus before ExecStart runs so no
// SET published concurrently with startup is missed.
func startCapability(
	ctx context.Context,
	mainCtx context.Context,
	mainCancel context.CancelFunc,
	commands []Command,
	registry *capability.Registry,
	capabilityName string,
) (*commandMain, error) {
	view := registry.Events().Subscribe()

	m := startSimple(mainCtx, mainCancel, commands)

	for {
		event, err := view.Next(ctx)
		if err != nil {
			m.Cancel()
			m.Wait(context.Background())
			if errors.Is(err, pubsub.ErrEndReached) {
				return nil, ErrCapabilityNotSet
			}
			// ctx was cancelled out from under us (e.g. a concurrent
			// Stop of this unit's start handle): that is a legitimate
			// cancellation, not a failed gate.
			return nil, err
		}
		if event.Type == capability.EventSet && event.Key == capabilityName {
			return m, nil
		}
	}
}
