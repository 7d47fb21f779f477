package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/applicant-ranker/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long:  `Start an HTTP server exposing /rank, /compare, /normalize and /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
	if err := v.BindPFlag("server.port", serveCmd.Flags().Lookup("port")); err != nil {
		panic(fmt.Sprintf("failed to bind port flag: %v", err))
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApplication(ctx, buildOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	// Load eagerly so /health reports dictionary status from the first request.
	if err := a.loader.EnsureLoaded(ctx); err != nil {
		return err
	}

	cfg := a.cfg.Server
	srv := server.New(server.Config{
		Port:            cfg.Port,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
		RequestTimeout:  cfg.RequestTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		MaxBodyBytes:    cfg.MaxBodyBytes,
	}, a.pipeline, a.normalizer, a.log.Named("server"))

	a.log.Info("ranker API configured",
		zap.Int("port", cfg.Port), zap.Bool("ai", a.client != nil))
	return srv.Start(ctx)
}
