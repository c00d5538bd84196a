/*
Package log provides structured logging for sessiond using zerolog.

It wraps a single global zerolog.Logger, configured once via Init,
with helpers for component- and unit-scoped child loggers.

# Usage

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

	log.Info("supervisor starting")

	launcherLog := log.WithComponent("launcher")
	launcherLog.Debug().Str("unit", "web").Msg("starting dependencies")

	unitLog := log.WithUnit("web")
	unitLog.Info().Msg("unit started")

JSON output (production):

	{"level":"info","unit":"web","time":"2026-07-30T10:30:00Z","message":"unit started"}

Console output (development):

	2026-07-30T10:30:00Z INF unit started unit=web
*/
package log
