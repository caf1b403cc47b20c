package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/jobs"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/utils"
)

// Worker polls the analysis_run table and executes claimed jobs. The
// pool size bounds how many background analyses run at once on this
// instance; claims use SKIP LOCKED so instances never double-run a job.
type Worker struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.AnalysisRunRepo
	registry *jobs.Registry
}

func NewWorker(db *gorm.DB, baseLog *logger.Logger, repo repos.AnalysisRunRepo, registry *jobs.Registry) *Worker {
	return &Worker{
		db:       db,
		log:      baseLog.With("component", "JobWorker"),
		repo:     repo,
		registry: registry,
	}
}

func (w *Worker) Start(ctx context.Context) {
	concurrency := utils.GetEnvAsInt("WORKER_CONCURRENCY", 4, w.log)
	if concurrency < 1 {
		concurrency = 1
	}
	w.log.Info("Starting job worker pool", "concurrency", concurrency)

	for i := 0; i < concurrency; i++ {
		workerID := i + 1
		go w.runLoop(ctx, workerID)
	}
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	const maxAttempts = 5
	retryDelay := 30 * time.Second
	staleRunning := 30 * time.Minute

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			run, err := w.repo.ClaimNextRunnable(ctx, w.db, maxAttempts, retryDelay, staleRunning)
			if err != nil {
				w.log.Warn("ClaimNextRunnable failed", "worker_id", workerID, "error", err)
				continue
			}
			if run == nil {
				continue
			}
			w.execute(ctx, workerID, run)
		}
	}
}

func (w *Worker) execute(ctx context.Context, workerID int, run *types.AnalysisRun) {
	// Heartbeat while the handler runs so a long job is not mistaken
	// for a stale one and reclaimed by another instance.
	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go w.heartbeatLoop(hbCtx, run.ID)

	h, ok := w.registry.Get(run.JobType)
	if !ok {
		w.log.Warn("No handler registered for job_type",
			"worker_id", workerID,
			"job_type", run.JobType,
			"job_id", run.ID,
		)
		w.fail(ctx, run, fmt.Errorf("no handler registered for job_type=%s", run.JobType))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Job handler panic",
				"worker_id", workerID,
				"job_id", run.ID,
				"job_type", run.JobType,
				"panic", r,
			)
			w.fail(ctx, run, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := h.Run(ctx, run); err != nil {
		w.log.Warn("Job failed",
			"worker_id", workerID,
			"job_id", run.ID,
			"job_type", run.JobType,
			"error", err,
		)
		w.fail(ctx, run, err)
		return
	}

	if err := w.repo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
		"status": types.RunStatusSucceeded,
		"error":  "",
	}); err != nil {
		w.log.Warn("Failed to mark job succeeded", "job_id", run.ID, "error", err)
	}
}

func (w *Worker) heartbeatLoop(ctx context.Context, runID uuid.UUID) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.repo.Heartbeat(ctx, nil, runID); err != nil {
				w.log.Warn("Job heartbeat failed", "job_id", runID, "error", err)
			}
		}
	}
}

func (w *Worker) fail(ctx context.Context, run *types.AnalysisRun, cause error) {
	now := time.Now()
	if err := w.repo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
		"status":        types.RunStatusFailed,
		"error":         cause.Error(),
		"last_error_at": now,
	}); err != nil {
		w.log.Warn("Failed to mark job failed", "job_id", run.ID, "error", err)
	}
}
