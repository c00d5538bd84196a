package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cuemby/sessiond/pkg/launcher"
	"github.com/cuemby/sessiond/pkg/log"
	"github.com/cuemby/sessiond/pkg/queue"
)

// stdinCommands reads whitespace-separated "start <unit>" / "stop
// <unit>" lines from stdin and feeds them to a CancellableQueue,
// decoupling the blocking bufio.Scanner loop from the goroutine that
// applies commands to the supervisor. Closing the queue on ctx.Done()
// wakes the consumer even if stdin never produces another line.
func stdinCommands(ctx context.Context, supervisor *launcher.Supervisor) {
	commands := queue.New[string]()
	stdinLog := log.WithComponent("stdin")

	go func() {
		defer commands.Close()
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := commands.Put(line); err != nil {
				return
			}
		}
	}()

	go func() {
		<-ctx.Done()
		commands.Close()
	}()

	for {
		line, err := commands.Get(ctx)
		if err != nil {
			return
		}
		applyCommand(ctx, supervisor, stdinLog, line)
	}
}

func applyCommand(ctx context.Context, supervisor *launcher.Supervisor, logger zerolog.Logger, line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		logger.Warn().Str("line", line).Msg("usage: start <unit> | stop <unit>")
		return
	}

	verb, unit := fields[0], fields[1]
	switch verb {
	case "start":
		if err := supervisor.Start(unit).Wait(ctx); err != nil {
			logger.Error().Err(err).Str("unit", unit).Msg("start failed")
		}
	case "stop":
		if err := supervisor.Stop(unit).Wait(ctx); err != nil {
			logger.Error().Err(err).Str("unit", unit).Msg("stop failed")
		}
	default:
		logger.Warn().Str("line", line).Msg("usage: start <unit> | stop <unit>")
	}
}
