package launcher

import (
	"context"
	"errors"

	"github.com/cuemby/sessiond/pkg/log"
	"github.com/cuemby/sessiond/pkg/metrics"
)

// runRunner is the Go translation of the originating design's
// _clean_up_on_stop: it awaits main "shielded" behind runnerCtx — so
// cancelling the runner (a Stop call) does not itself cancel main —
// then always runs dependent pull-down, the reverse-ordering wait,
// ExecStop, and a final cancel-and-wait of main, regardless of
// whether main finished on its own or the runner was cancelled first.
func (s *Supervisor) runRunner(name string, main Task, runnerCtx context.Context, result *future) {
	unitLog := log.WithUnit(name)

	mainDone := make(chan struct{})
	var mainErr error
	go func() {
		mainErr = main.Wait(context.Background())
		close(mainDone)
	}()

	select {
	case <-mainDone:
	case <-runnerCtx.Done():
	}

	s.ensureReadyToStop(name)

	unitLog.Debug().Msg("is stopping")
	if e, ok := s.db.lookup(name); ok && len(e.execStop) > 0 {
		if _, err := runCommandLines(context.Background(), e.execStop); err != nil {
			unitLog.Error().Err(err).Msg("exec_stop command failed")
		}
	}

	main.Cancel()
	<-mainDone
	unitLog.Debug().Msg("has stopped")

	s.mu.Lock()
	delete(s.running, name)
	s.mu.Unlock()
	metrics.LauncherRunning.Dec()
	s.events.Publish(newEvent(EventStop, name))

	if errors.Is(mainErr, context.Canceled) {
		mainErr = nil
	}
	result.resolve(mainErr)
}

// ensureReadyToStop performs the cleanup algorithm's dependent
// pull-down and reverse-ordering wait: every dependent that binds_to
// name is stopped, then the runner waits for every in-flight stop
// handle among before(name) ∪ after⁻¹(name) to finish.
func (s *Supervisor) ensureReadyToStop(name string) {
	unitLog := log.WithUnit(name)

	unitLog.Debug().Msg("is stopping dependents")
	for dependent := range s.db.bindsToInverse(name) {
		s.Stop(dependent)
	}

	beforeSet := s.db.beforeSet(name)

	var waiters []*future
	s.mu.Lock()
	for unit := range beforeSet {
		if f, ok := s.stopping[unit]; ok {
			waiters = append(waiters, f)
		}
	}
	s.mu.Unlock()

	if len(waiters) > 0 {
		unitLog.Debug().Int("count", len(waiters)).Msg("is waiting on dependents")
	}
	for _, f := range waiters {
		f.Join(context.Background())
	}
}
