package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

func newRunRepo(t *testing.T) AnalysisRunRepo {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.AnalysisRun{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewAnalysisRunRepo(gdb, log)
}

func TestEnqueueFillsDefaults(t *testing.T) {
	repo := newRunRepo(t)
	run, err := repo.Enqueue(context.Background(), nil, &types.AnalysisRun{
		SubmissionID: uuid.New(),
		OwnerUserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if run.ID == uuid.Nil {
		t.Fatal("enqueue must assign an id")
	}
	if run.Status != types.RunStatusQueued {
		t.Fatalf("status=%q, want queued", run.Status)
	}
	if run.JobType != types.JobTypeSubmissionAnalysis {
		t.Fatalf("job_type=%q, want %q", run.JobType, types.JobTypeSubmissionAnalysis)
	}
}

func TestHeartbeatOnlyTouchesRunningRuns(t *testing.T) {
	repo := newRunRepo(t)
	ctx := context.Background()

	run, err := repo.Enqueue(ctx, nil, &types.AnalysisRun{
		SubmissionID: uuid.New(),
		OwnerUserID:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// Queued runs are not heartbeaten.
	if err := repo.Heartbeat(ctx, nil, run.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	reloaded, err := repo.GetByID(ctx, nil, run.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.HeartbeatAt != nil {
		t.Fatal("heartbeat must not touch a queued run")
	}

	stale := time.Now().Add(-time.Hour)
	if err := repo.UpdateFields(ctx, nil, run.ID, map[string]interface{}{
		"status":       types.RunStatusRunning,
		"heartbeat_at": stale,
	}); err != nil {
		t.Fatalf("mark running: %v", err)
	}

	if err := repo.Heartbeat(ctx, nil, run.ID); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	reloaded, err = repo.GetByID(ctx, nil, run.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.HeartbeatAt == nil || !reloaded.HeartbeatAt.After(stale) {
		t.Fatalf("heartbeat did not advance: %v", reloaded.HeartbeatAt)
	}
}
