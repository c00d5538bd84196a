package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/sessiond/pkg/capability"
	"github.com/cuemby/sessiond/pkg/launcher"
	"github.com/cuemby/sessiond/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Register the demo unit set and supervise it until interrupted",
	Long: `run builds a Supervisor, registers a small demo unit graph
exercising all four unit types (a CAPABILITY-gated database, an
EXEC-type api that binds to it, a FORKING-type reaper, and a SIMPLE
background worker), starts them, and prints every lifecycle event to
stdout until SIGINT or SIGTERM, at which point it starts
shutdown.target, which stops the demo units, and exits.`,
	RunE: runMain,
}

func runMain(cmd *cobra.Command, args []string) error {
	registry := capability.NewRegistry()
	supervisor := launcher.NewSupervisor(registry)
	runnerLog := log.WithComponent("run")

	if err := registerDemoUnits(supervisor); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	view := supervisor.Events().Subscribe()
	go func() {
		for {
			ev, err := view.Next(ctx)
			if err != nil {
				return
			}
			runnerLog.Info().
				Str("event", ev.Type.String()).
				Str("unit", ev.Name).
				Str("id", ev.ID.String()).
				Msg("lifecycle event")
		}
	}()

	for _, unit := range []string{"api", "reaper", "worker"} {
		if err := supervisor.Start(unit).Wait(ctx); err != nil {
			runnerLog.Error().Err(err).Str("unit", unit).Msg("unit failed to start")
			return err
		}
	}
	runnerLog.Info().Msg("demo unit set running, press ctrl-c to stop")
	runnerLog.Info().Msg("type \"start <unit>\" or \"stop <unit>\" on stdin to control it interactively")
	go stdinCommands(ctx, supervisor)

	<-ctx.Done()
	runnerLog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return supervisor.Start(launcher.ShutdownTarget).Wait(shutdownCtx)
}

// registerDemoUnits declares a small unit graph exercising all four
// UnitTypes: a CAPABILITY-type database, an EXEC-type api that binds
// to it, a FORKING-type reaper, and a SIMPLE-type background worker.
func registerDemoUnits(supervisor *launcher.Supervisor) error {
	if err := supervisor.AddNowait("database", launcher.Descriptor{
		CapabilityName: "database-ready",
		ExecStart: []launcher.Command{
			func(ctx context.Context) (any, error) {
				time.Sleep(200 * time.Millisecond)
				supervisor.Capabilities().Set("database-ready", struct{}{})
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	}); err != nil {
		return err
	}

	execType := launcher.Exec
	if err := supervisor.AddNowait("api", launcher.Descriptor{
		Type:    &execType,
		BindsTo: []string{"database"},
		After:   []string{"database"},
		ExecStart: []launcher.Command{
			func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	}); err != nil {
		return err
	}

	forkingType := launcher.Forking
	if err := supervisor.AddNowait("reaper", launcher.Descriptor{
		Type: &forkingType,
		ExecStart: []launcher.Command{
			func(ctx context.Context) (any, error) {
				return newReaperTask(ctx), nil
			},
		},
	}); err != nil {
		return err
	}

	simpleType := launcher.Simple
	return supervisor.AddNowait("worker", launcher.Descriptor{
		Type: &simpleType,
		ExecStart: []launcher.Command{
			func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		},
	})
}

// reaperTask is a minimal launcher.Task for the Forking-type demo
// unit: it runs until its own context is cancelled.
type reaperTask struct {
	cancel context.CancelFunc
	done   <-chan struct{}
}

func newReaperTask(ctx context.Context) *reaperTask {
	taskCtx, cancel := context.WithCancel(ctx)
	return &reaperTask{cancel: cancel, done: taskCtx.Done()}
}

func (t *reaperTask) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *reaperTask) Cancel() {
	t.cancel()
}
