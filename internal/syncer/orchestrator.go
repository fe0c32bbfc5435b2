// Package syncer implements the background reconciliation protocol: one
// sync pass drains pending outbound work to the remote service and then
// refreshes the cached server data. At most one pass runs at a time.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rithika5656/Telemedicine-nabha/internal/mirror"
	"github.com/rithika5656/Telemedicine-nabha/internal/queue"
	"github.com/rithika5656/Telemedicine-nabha/internal/store"
	"github.com/rithika5656/Telemedicine-nabha/internal/types"
)

// Remote defines the remote service operations the orchestrator needs.
// *remote.Client satisfies it; tests substitute mocks.
type Remote interface {
	SubmitSymptoms(ctx context.Context, report types.SymptomReport) error
	SubmitFeedback(ctx context.Context, feedback types.Feedback) error
	GetRecords(ctx context.Context, patientID string) ([]types.HealthRecord, error)
	GetUpcomingConsultation(ctx context.Context, patientID string) (*types.Consultation, error)
	GetMedicines(ctx context.Context, patientID string) ([]types.Medicine, error)
}

// Orchestrator runs sync passes. The running flag is the only mutual
// exclusion the design needs: all store mutations happen inside a pass.
type Orchestrator struct {
	store   store.Store
	remote  Remote
	mirror  *mirror.Mirror
	running atomic.Bool
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(s store.Store, r Remote, m *mirror.Mirror) *Orchestrator {
	return &Orchestrator{
		store:  s,
		remote: r,
		mirror: m,
	}
}

// Running reports whether a sync pass is currently executing.
func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

// Run starts the orchestrator loop, executing one sync pass per trigger
// event. Blocks until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context, triggers <-chan struct{}) {
	slog.Info("worker started",
		"component", "syncer",
		"action", "worker_started",
	)

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "syncer",
				"action", "worker_stopped",
				"reason", "context_cancelled",
			)
			return
		case <-triggers:
			o.PerformSync(ctx)
		}
	}
}

// PerformSync executes one sync pass: upload, queue drain, cache refresh.
// Concurrent calls while a pass is running coalesce into a no-op. Every
// phase catches and logs its own failures; nothing escapes this boundary.
func (o *Orchestrator) PerformSync(ctx context.Context) {
	if !o.running.CompareAndSwap(false, true) {
		slog.Debug("sync pass already running, trigger coalesced",
			"component", "syncer",
			"action", "trigger_coalesced",
		)
		return
	}
	defer o.running.Store(false)

	start := time.Now()
	slog.Info("sync pass started",
		"component", "syncer",
		"action", "pass_started",
	)

	uploaded := o.uploadReports(ctx)
	drained := o.drainQueue(ctx)
	o.refreshCaches(ctx)
	o.refreshPendingCount(ctx)

	o.mirror.SetLastSync(time.Now())

	slog.Info("sync pass completed",
		"component", "syncer",
		"action", "pass_completed",
		"uploaded", uploaded,
		"drained", drained,
		"duration", time.Since(start),
	)
}

// TriggerManualSync runs a pass on user request. Returns false without
// touching the remote service when the device is offline.
func (o *Orchestrator) TriggerManualSync(ctx context.Context) bool {
	if !o.mirror.Online() {
		return false
	}
	o.PerformSync(ctx)
	return true
}

// uploadReports submits unsynced symptom reports in creation order. A
// failed item stays unsynced and does not block the items after it.
func (o *Orchestrator) uploadReports(ctx context.Context) int {
	reports, err := o.store.ListUnsyncedSymptomReports(ctx)
	if err != nil {
		slog.Error("failed to list unsynced symptom reports",
			"component", "syncer",
			"action", "upload_phase_failed",
			"error", err,
		)
		return 0
	}

	uploaded := 0
	for _, report := range reports {
		if err := o.remote.SubmitSymptoms(ctx, report); err != nil {
			slog.Warn("symptom report upload failed, will retry",
				"component", "syncer",
				"action", "upload_failed",
				"report_id", report.ID,
				"error", err,
			)
			continue
		}

		if err := o.store.MarkSymptomReportSynced(ctx, report.ID); err != nil {
			slog.Error("failed to mark symptom report synced",
				"component", "syncer",
				"action", "mark_synced_failed",
				"report_id", report.ID,
				"error", err,
			)
			continue
		}
		uploaded++
	}
	return uploaded
}

// drainQueue dispatches queue entries FIFO. Acknowledged entries are
// removed; failed ones stay with their attempts counter bumped. A malformed
// or unknown entry is never dropped.
func (o *Orchestrator) drainQueue(ctx context.Context) int {
	entries, err := o.store.ListQueue(ctx)
	if err != nil {
		slog.Error("failed to list sync queue",
			"component", "syncer",
			"action", "queue_phase_failed",
			"error", err,
		)
		return 0
	}

	drained := 0
	for _, entry := range entries {
		if err := o.dispatch(ctx, entry); err != nil {
			slog.Warn("queue entry delivery failed, will retry",
				"component", "syncer",
				"action", "dispatch_failed",
				"entry_id", entry.ID,
				"kind", entry.Kind,
				"attempts", entry.Attempts+1,
				"error", err,
			)
			if err := o.store.IncrementQueueAttempts(ctx, entry.ID); err != nil {
				slog.Error("failed to increment queue attempts",
					"component", "syncer",
					"action", "attempts_update_failed",
					"entry_id", entry.ID,
					"error", err,
				)
			}
			continue
		}

		if err := o.store.Dequeue(ctx, entry.ID); err != nil {
			slog.Error("failed to dequeue acknowledged entry",
				"component", "syncer",
				"action", "dequeue_failed",
				"entry_id", entry.ID,
				"error", err,
			)
			continue
		}
		drained++
	}
	return drained
}

// dispatch decodes a queue entry by kind and invokes the matching remote
// operation.
func (o *Orchestrator) dispatch(ctx context.Context, entry store.QueueEntry) error {
	switch entry.Kind {
	case queue.KindSymptom:
		report, err := queue.DecodeSymptom(entry.Payload)
		if err != nil {
			return err
		}
		return o.remote.SubmitSymptoms(ctx, report)
	case queue.KindFeedback:
		feedback, err := queue.DecodeFeedback(entry.Payload)
		if err != nil {
			return err
		}
		return o.remote.SubmitFeedback(ctx, feedback)
	default:
		return &queue.ErrUnknownKind{Kind: entry.Kind}
	}
}

// refreshCaches fetches records, consultation, and medicines. The three
// fetches are independent and best-effort; a failure in one leaves its
// previous cache intact and does not abort the others. Runs strictly after
// the upload phase so a just-submitted report cannot be shadowed by a stale
// refresh.
func (o *Orchestrator) refreshCaches(ctx context.Context) {
	patient := o.mirror.Patient()
	if patient == nil {
		return
	}

	if records, err := o.remote.GetRecords(ctx, patient.ID); err != nil {
		o.logRefreshFailure("records", err)
	} else if err := o.store.ReplaceRecords(ctx, patient.ID, records); err != nil {
		o.logCacheFailure("records", err)
	} else {
		o.mirror.SetRecords(records)
	}

	if consultation, err := o.remote.GetUpcomingConsultation(ctx, patient.ID); err != nil {
		o.logRefreshFailure("consultation", err)
	} else if err := o.store.SaveConsultation(ctx, patient.ID, consultation); err != nil {
		o.logCacheFailure("consultation", err)
	} else {
		o.mirror.SetConsultation(consultation)
	}

	if medicines, err := o.remote.GetMedicines(ctx, patient.ID); err != nil {
		o.logRefreshFailure("medicines", err)
	} else if err := o.store.ReplaceMedicines(ctx, medicines); err != nil {
		o.logCacheFailure("medicines", err)
	} else {
		o.mirror.SetMedicines(medicines)
	}
}

// refreshPendingCount recomputes the pending counter from the store, the
// authoritative source.
func (o *Orchestrator) refreshPendingCount(ctx context.Context) {
	count, err := o.store.CountUnsyncedSymptomReports(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("failed to count unsynced symptom reports",
				"component", "syncer",
				"action", "pending_count_failed",
				"error", err,
			)
		}
		return
	}
	o.mirror.SetPendingCount(count)
}

func (o *Orchestrator) logRefreshFailure(cache string, err error) {
	slog.Warn("cache refresh fetch failed, keeping previous cache",
		"component", "syncer",
		"action", "refresh_failed",
		"cache", cache,
		"error", err,
	)
}

func (o *Orchestrator) logCacheFailure(cache string, err error) {
	slog.Error("cache replacement failed",
		"component", "syncer",
		"action", "cache_write_failed",
		"cache", cache,
		"error", err,
	)
}
