package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rithika5656/Telemedicine-nabha/internal/config"
	"github.com/rithika5656/Telemedicine-nabha/internal/connectivity"
	"github.com/rithika5656/Telemedicine-nabha/internal/mirror"
	"github.com/rithika5656/Telemedicine-nabha/internal/remote"
	"github.com/rithika5656/Telemedicine-nabha/internal/store"
	"github.com/rithika5656/Telemedicine-nabha/internal/syncer"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "nabha",
	Short: "Nabha telemedicine patient agent",
	Long:  "Runs the offline-first sync agent: captures stay local, the background reconciler drains them to the telemedicine service whenever connectivity allows.",
	RunE:  runAgent,
}

func runAgent(cmd *cobra.Command, args []string) error {
	// Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	initLogger(cfg.Log)
	slog.Info("configuration loaded", "remote", cfg.Remote.BaseURL)

	// Initialize local store (migrations, WAL mode)
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("store initialized", "path", cfg.Database.Path)

	// Remote service client
	client := remote.NewClient(cfg.Remote.BaseURL)

	// In-memory mirror, hydrated from the local cache so the UI has data
	// before the first sync pass completes
	mir := mirror.New()
	hydrateMirror(ctx, st, mir)

	// Connectivity monitor and sync orchestrator
	prober := connectivity.NewHTTPProber(client)
	monitor := connectivity.NewMonitor(prober, mir, time.Duration(cfg.Connectivity.PollInterval))
	orchestrator := syncer.NewOrchestrator(st, client, mir)

	var wg sync.WaitGroup
	startWorker(ctx, &wg, "connectivity-monitor", monitor.Run)
	startWorker(ctx, &wg, "sync-orchestrator", func(ctx context.Context) {
		orchestrator.Run(ctx, monitor.Online())
	})

	// Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// Wait for workers, then close the store
	wg.Wait()
	if err := st.Close(); err != nil {
		slog.Error("store close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// hydrateMirror loads the cached state into the mirror. Failures are logged
// and skipped: an empty mirror just means a cold start.
func hydrateMirror(ctx context.Context, st store.Store, mir *mirror.Mirror) {
	patient, err := st.GetPatient(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to load cached patient", "error", err)
		}
		return
	}
	mir.SetPatient(patient)

	if count, err := st.CountUnsyncedSymptomReports(ctx); err != nil {
		slog.Error("failed to count pending reports", "error", err)
	} else {
		mir.SetPendingCount(count)
	}

	if records, err := st.ListRecords(ctx, patient.ID); err != nil {
		slog.Error("failed to load cached records", "error", err)
	} else {
		mir.SetRecords(records)
	}

	if consultation, err := st.GetConsultation(ctx, patient.ID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to load cached consultation", "error", err)
		}
	} else {
		mir.SetConsultation(consultation)
	}

	if medicines, err := st.ListMedicines(ctx); err != nil {
		slog.Error("failed to load cached medicines", "error", err)
	} else {
		mir.SetMedicines(medicines)
	}
}

// initLogger configures the process-wide slog default.
func initLogger(cfg config.LogConfig) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// startWorker launches a background worker goroutine that respects context cancellation.
// Workers are tracked via WaitGroup for graceful shutdown.
func startWorker(ctx context.Context, wg *sync.WaitGroup, name string, fn func(ctx context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("worker started", "worker", name)
		fn(ctx)
		slog.Info("worker stopped", "worker", name)
	}()
}
