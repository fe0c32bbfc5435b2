package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rithika5656/Telemedicine-nabha/internal/config"
	"github.com/rithika5656/Telemedicine-nabha/internal/demoapi"
)

var demoServerCmd = &cobra.Command{
	Use:   "demo-server",
	Short: "Serve the demo telemedicine API with seed data",
	Args:  cobra.NoArgs,
	RunE:  runDemoServer,
}

func runDemoServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	initLogger(cfg.Log)

	handler := demoapi.NewHandler(cfg.Demo.UploadDir)
	router := demoapi.NewRouter(handler)

	addr := fmt.Sprintf(":%d", cfg.Demo.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Demo.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Demo.WriteTimeout),
	}

	go func() {
		slog.Info("demo server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called
		// gracefully; anything else should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown initiated")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Demo.ShutdownTimeout))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
