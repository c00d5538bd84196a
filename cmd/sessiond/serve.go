package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/sessiond/pkg/capability"
	"github.com/cuemby/sessiond/pkg/health"
	"github.com/cuemby/sessiond/pkg/launcher"
	"github.com/cuemby/sessiond/pkg/log"
	"github.com/cuemby/sessiond/pkg/metrics"
	"github.com/cuemby/sessiond/pkg/supervisorrpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the supervisor behind a gRPC API and a metrics endpoint",
	Long: `serve starts a Supervisor with only shutdown.target registered,
exposes it via supervisorrpc on --grpc-addr (start, stop, health and
event subscription; the API has no call that registers units), and
serves Prometheus metrics and a health check on --http-addr until
SIGINT or SIGTERM.`,
	RunE: serveMain,
}

func init() {
	serveCmd.Flags().String("grpc-addr", "127.0.0.1:7070", "Address the gRPC API listens on")
	serveCmd.Flags().String("http-addr", "127.0.0.1:9090", "Address the metrics/health HTTP server listens on")
}

func serveMain(cmd *cobra.Command, args []string) error {
	grpcAddr, _ := cmd.Flags().GetString("grpc-addr")
	httpAddr, _ := cmd.Flags().GetString("http-addr")
	serveLog := log.WithComponent("serve")

	registry := capability.NewRegistry()
	supervisor := launcher.NewSupervisor(registry)

	checker := health.NewTCPChecker(grpcAddr)
	grpcServer := supervisorrpc.NewGRPCServer(supervisor, supervisorrpc.WithHealthChecker(checker))

	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		serveLog.Info().Str("addr", grpcAddr).Msg("gRPC API listening")
		if err := grpcServer.Serve(listener); err != nil {
			serveLog.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Check(r.Context())
		if !result.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = w.Write([]byte(result.Message))
	})
	httpServer := &http.Server{Addr: httpAddr, Handler: mux}

	go func() {
		serveLog.Info().Str("addr", httpAddr).Msg("metrics server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveLog.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	<-ctx.Done()
	serveLog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	_ = httpServer.Shutdown(shutdownCtx)
	return supervisor.Start(launcher.ShutdownTarget).Wait(shutdownCtx)
}
