package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"rrt-planner/internal/server"
	"rrt-planner/planner"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP planning server",
	Long:  `Serves POST /plan, POST /smooth, GET /health and GET /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		if !cmd.Flags().Changed("port") {
			port = getEnv("RRT_PORT", port)
		}
		maxTimeout, _ := cmd.Flags().GetDuration("max-timeout")

		defaults := planner.DefaultParams()
		if err := applyEnvParams(&defaults); err != nil {
			return err
		}
		if err := defaults.Validate(); err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv := &http.Server{
			Addr: ":" + port,
			Handler: server.NewHandler(server.Options{
				Logger:     logger,
				Registry:   registry,
				Defaults:   defaults,
				MaxTimeout: maxTimeout,
			}),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Infow("server listening", "addr", srv.Addr, "max_timeout", maxTimeout)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err

		case sig := <-shutdown:
			logger.Infow("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warnw("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				return srv.Close()
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on (default $RRT_PORT)")
	serveCmd.Flags().Duration("max-timeout", 10*time.Second, "Upper bound on per-request planning time (0 disables)")
}
