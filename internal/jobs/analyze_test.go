package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/analysis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/requestdata"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/services"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

func newAnalyzeFixture(t *testing.T) (*gorm.DB, *AnalyzeSubmissionHandler, services.SubmissionService, repos.WorkflowStageRepo, *requestdata.RequestData) {
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
	if err := gdb.AutoMigrate(
		&types.User{},
		&types.Submission{},
		&types.WorkflowStage{},
		&types.AnalysisRun{},
		&types.Notification{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	users := repos.NewUserRepo(gdb, log)
	subs := repos.NewSubmissionRepo(gdb, log)
	stages := repos.NewWorkflowStageRepo(gdb, log)
	runs := repos.NewAnalysisRunRepo(gdb, log)
	notifications := repos.NewNotificationRepo(gdb, log)

	author, err := users.Create(context.Background(), nil, &types.User{
		Email:        "author@example.com",
		Name:         "Author",
		PasswordHash: "x",
		Role:         types.RoleStudent,
	})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	notifier := services.NewNotifier(log, notifications, nil)
	workflow := services.NewWorkflowService(gdb, log, subs, stages, users, notifier)
	submission := services.NewSubmissionService(gdb, log, subs, runs, workflow)

	// No LLM client configured: every primary-capable analyzer falls
	// back to its heuristic.
	orchestrator := analysis.NewOrchestrator(log, nil, analysis.NewResultCache(analysis.DefaultCacheTTL))
	handler := NewAnalyzeSubmissionHandler(log, subs, orchestrator, workflow)

	rd := &requestdata.RequestData{UserID: author.ID, Role: author.Role}
	return gdb, handler, submission, stages, rd
}

func TestAnalyzeRunAdvancesSubmission(t *testing.T) {
	gdb, handler, submissionService, stages, rd := newAnalyzeFixture(t)

	created, err := submissionService.Create(context.Background(), rd, "Night Market", "Maya walked through the market. She saw lanterns everywhere.")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	var run types.AnalysisRun
	if err := gdb.Where("submission_id = ?", created.ID).First(&run).Error; err != nil {
		t.Fatalf("load queued run: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := handler.Run(ctx, &run); err != nil {
		t.Fatalf("handler run: %v", err)
	}

	var reloaded types.Submission
	if err := gdb.First(&reloaded, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if reloaded.CurrentStage != types.StagePlagiarismReview {
		t.Fatalf("currentStage=%q, want PLAGIARISM_REVIEW", reloaded.CurrentStage)
	}
	if reloaded.AnalysisNote == "" {
		t.Fatal("all-fallback analysis should record a degraded note")
	}

	var result analysis.Result
	if err := json.Unmarshal(reloaded.AnalysisResult, &result); err != nil {
		t.Fatalf("unmarshal stored result: %v", err)
	}
	if result.BasicMetrics.WordCount == 0 {
		t.Fatal("stored result missing basic metrics")
	}
	if result.Metrics.AIScore < 0 || result.Metrics.AIScore > 100 {
		t.Fatalf("aiScore out of range: %v", result.Metrics.AIScore)
	}

	rows, err := stages.ListBySubmission(context.Background(), nil, created.ID)
	if err != nil {
		t.Fatalf("list stages: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 stage rows, got %d", len(rows))
	}
	if rows[1].StageName != types.StagePlagiarismReview || rows[1].Status != types.StageStatusPending {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestAnalyzeRunSkipsAdvancedSubmission(t *testing.T) {
	gdb, handler, submissionService, stages, rd := newAnalyzeFixture(t)

	created, err := submissionService.Create(context.Background(), rd, "Night Market", "Maya walked through the market.")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	var run types.AnalysisRun
	if err := gdb.Where("submission_id = ?", created.ID).First(&run).Error; err != nil {
		t.Fatalf("load queued run: %v", err)
	}

	// First execution advances the submission.
	if err := handler.Run(context.Background(), &run); err != nil {
		t.Fatalf("first run: %v", err)
	}
	// A stale reclaim of the same run is a no-op, not a duplicate transition.
	if err := handler.Run(context.Background(), &run); err != nil {
		t.Fatalf("second run: %v", err)
	}

	rows, err := stages.ListBySubmission(context.Background(), nil, created.ID)
	if err != nil {
		t.Fatalf("list stages: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("reclaimed run must not add stage rows, got %d", len(rows))
	}
}
