package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/sessiond/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:   "sessiond",
	Short: "sessiond - a local service supervisor",
	Long: `sessiond supervises a declared set of units on a single host:
it starts them in dependency order, gates their readiness, tears them
down in reverse, and republishes the whole lifecycle as a stream of
events.

It does not schedule across hosts and does not spawn containers; it is
the part of a process supervisor that decides what runs and when.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"sessiond version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
