package launcher

import (
	"context"
	"sync"

	"github.com/cuemby/sessiond/pkg/capability"
	"github.com/cuemby/sessiond/pkg/log"
	"github.com/cuemby/sessiond/pkg/metrics"
	"github.com/cuemby/sessiond/pkg/pubsub"
)

// runningUnit tracks a unit that has passed its readiness gate: its
// main Task, and the handle used to tear it down.
type runningUnit struct {
	main         Task
	stopRunner   context.CancelFunc
	runnerFuture *future
}

// Supervisor owns unit lifecycle: dependency-respecting start and
// stop, running the declared commands, and publishing lifecycle
// events. It is safe for concurrent use.
type Supervisor struct {
	mu           sync.Mutex
	db           *Database
	capabilities *capability.Registry
	events       *pubsub.Queue[Event]

	starting map[string]*future
	stopping map[string]*future
	running  map[string]*runningUnit
}

// NewSupervisor creates a Supervisor backed by the given capability
// registry and pre-registers ShutdownTarget.
func NewSupervisor(capabilities *capability.Registry) *Supervisor {
	s := &Supervisor{
		db:           NewDatabase(),
		capabilities: capabilities,
		events:       pubsub.NewQueue[Event](),
		starting:     make(map[string]*future),
		stopping:     make(map[string]*future),
		running:      make(map[string]*runningUnit),
	}

	noDefaultDeps := false
	_ = s.AddNowait(ShutdownTarget, Descriptor{
		DefaultDependencies: &noDefaultDeps,
		ExecStart:           []Command{waitForever},
	})
	return s
}

func waitForever(ctx context.Context) (any, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// Database returns the supervisor's declaration layer.
func (s *Supervisor) Database() *Database {
	return s.db
}

// Capabilities returns the capability registry gating Capability
// units.
func (s *Supervisor) Capabilities() *capability.Registry {
	return s.capabilities
}

// Events returns the supervisor's lifecycle event bus.
func (s *Supervisor) Events() *pubsub.Queue[Event] {
	return s.events
}

// AddNowait registers name with descriptor and publishes an Add event.
// The event is published while still holding the supervisor's
// internal state mutex: a subscriber that observes Add(name) is
// guaranteed the registration is visible to a concurrent Start, and
// that no Start event for name could have been published first.
func (s *Supervisor) AddNowait(name string, descriptor Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Add(name, descriptor); err != nil {
		return err
	}
	s.events.Publish(newEvent(EventAdd, name))
	return nil
}

// Add is the context-accepting counterpart of AddNowait; the
// operation never suspends, so it is equivalent to calling AddNowait
// directly.
func (s *Supervisor) Add(ctx context.Context, name string, descriptor Descriptor) error {
	return s.AddNowait(name, descriptor)
}

// RemoveNowait removes name from the database and publishes a Remove
// event. It fails with ErrRunning if name is currently running, and
// is a no-op if name is unknown.
func (s *Supervisor) RemoveNowait(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.db.Contains(name) {
		return nil
	}
	if _, running := s.running[name]; running {
		return ErrRunning
	}
	s.db.Remove(name)
	s.events.Publish(newEvent(EventRemove, name))
	return nil
}

// Remove stops name if running, then removes it.
func (s *Supervisor) Remove(ctx context.Context, name string) error {
	if err := s.Stop(name).Wait(ctx); err != nil {
		return err
	}
	return s.RemoveNowait(name)
}

// Contains reports whether name is registered.
func (s *Supervisor) Contains(name string) bool {
	return s.db.Contains(name)
}

// IsRunning reports whether name currently has an installed runner.
func (s *Supervisor) IsRunning(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.running[name]
	return ok
}

// Start returns the in-flight start handle for name, creating one if
// none exists. The handle resolves once the unit has passed its
// readiness gate, or fails if starting was aborted.
func (s *Supervisor) Start(name string) *future {
	s.mu.Lock()
	if f, ok := s.starting[name]; ok {
		s.mu.Unlock()
		return f
	}
	startCtx, startCancel := context.WithCancel(context.Background())
	f := newFuture(startCancel)
	s.starting[name] = f
	s.mu.Unlock()

	go s.doStart(name, f, startCtx)
	return f
}

// Stop returns the in-flight stop handle for name, creating one if
// none exists.
func (s *Supervisor) Stop(name string) *future {
	s.mu.Lock()
	if f, ok := s.stopping[name]; ok {
		s.mu.Unlock()
		return f
	}
	stopCtx, stopCancel := context.WithCancel(context.Background())
	f := newFuture(stopCancel)
	s.stopping[name] = f
	s.mu.Unlock()

	go s.doStop(name, f, stopCtx)
	return f
}

func (s *Supervisor) doStart(name string, result *future, ctx context.Context) {
	err := s.runStart(ctx, name)
	result.resolve(err)

	s.mu.Lock()
	delete(s.starting, name)
	s.mu.Unlock()
}

func (s *Supervisor) doStop(name string, result *future, ctx context.Context) {
	err := s.runStop(ctx, name)
	result.resolve(err)

	s.mu.Lock()
	delete(s.stopping, name)
	s.mu.Unlock()
}

// runStart implements the start algorithm: wait for any stop in
// progress, fast-path if already running, stop conflicts, pull up
// binds_to, wait on ordering, invoke ExecStart through the unit's
// readiness gate, and install the runner.
func (s *Supervisor) runStart(ctx context.Context, name string) (err error) {
	unitLog := log.WithUnit(name)
	timer := metrics.NewTimer()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.LauncherStartsTotal.WithLabelValues(name, outcome).Inc()
		timer.ObserveDurationVec(metrics.LauncherStartDuration, name)
	}()

	s.mu.Lock()
	stopFuture := s.stopping[name]
	s.mu.Unlock()
	if stopFuture != nil {
		if err := stopFuture.Join(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	_, running := s.running[name]
	s.mu.Unlock()
	if running {
		return nil
	}

	e, ok := s.db.lookup(name)
	if !ok {
		return ErrMissingDescriptorData
	}

	if err := s.ensureReadyToStart(ctx, name); err != nil {
		return err
	}

	unitLog.Debug().Msg("is starting")
	main, err := s.startMain(ctx, name, e)
	if err != nil {
		return err
	}
	unitLog.Debug().Msg("has started")

	runnerCtx, runnerCancel := context.WithCancel(context.Background())
	runnerFuture := newFuture(runnerCancel)

	s.mu.Lock()
	s.running[name] = &runningUnit{main: main, stopRunner: runnerCancel, runnerFuture: runnerFuture}
	s.events.Publish(newEvent(EventStart, name))
	s.mu.Unlock()
	metrics.LauncherRunning.Inc()

	go s.runRunner(name, main, runnerCtx, runnerFuture)

	return nil
}

// runStop implements the stop algorithm: cancel-and-wait any in-flight
// start, then cancel-and-wait the running record, which drives the
// runner's cleanup.
func (s *Supervisor) runStop(ctx context.Context, name string) (err error) {
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.LauncherStopsTotal.WithLabelValues(name, outcome).Inc()
	}()

	s.mu.Lock()
	startFuture := s.starting[name]
	s.mu.Unlock()
	if startFuture != nil {
		if err := startFuture.CancelAndWait(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	ru, running := s.running[name]
	s.mu.Unlock()
	if running {
		if err := ru.runnerFuture.CancelAndWait(); err != nil {
			return err
		}
	}
	return nil
}

// ensureReadyToStart performs steps 3-5 of the start algorithm.
func (s *Supervisor) ensureReadyToStart(ctx context.Context, name string) error {
	unitLog := log.WithUnit(name)

	unitLog.Debug().Msg("is stopping conflicts")
	for conflict := range s.db.conflictsUnion(name) {
		s.Stop(conflict)
	}

	unitLog.Debug().Msg("is starting dependencies")
	for dependency := range s.db.bindsToSet(name) {
		s.Start(dependency)
	}

	afterSet := s.db.afterSet(name)
	beforeSet := s.db.beforeSet(name)
	waitSet := afterSet.union(beforeSet)

	var waiters []*future
	s.mu.Lock()
	for unit := range waitSet {
		if f, ok := s.stopping[unit]; ok {
			waiters = append(waiters, f)
		}
	}
	for unit := range afterSet {
		if f, ok := s.starting[unit]; ok {
			waiters = append(waiters, f)
		}
	}
	s.mu.Unlock()

	if len(waiters) > 0 {
		unitLog.Debug().Msg("is waiting on dependencies")
	}
	for _, f := range waiters {
		if err := f.Join(ctx); err != nil {
			return err
		}
	}
	return nil
}

// startMain invokes ExecStart through the readiness gate appropriate
// to e.unitType, yielding the Task that becomes the unit's main.
func (s *Supervisor) startMain(ctx context.Context, name string, e entry) (Task, error) {
	mainCtx, mainCancel := context.WithCancel(context.Background())

	switch e.unitType {
	case Forking:
		task, err := startForking(mainCtx, e.execStart)
		if err != nil {
			mainCancel()
			return nil, err
		}
		return task, nil
	case Exec:
		return startExec(mainCtx, mainCancel, e.execStart), nil
	case Capability:
		return startCapability(ctx, mainCtx, mainCancel, e.execStart, s.capabilities, e.capabilityName)
	default:
		return startSimple(mainCtx, mainCancel, e.execStart), nil
	}
}
