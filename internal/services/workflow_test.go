package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/analysis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/requestdata"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

type workflowFixture struct {
	db         *gorm.DB
	users      repos.UserRepo
	subs       repos.SubmissionRepo
	stages     repos.WorkflowStageRepo
	runs       repos.AnalysisRunRepo
	workflow   WorkflowService
	submission SubmissionService

	author     *types.User
	reviewer   *types.User
	editor     *types.User
	operations *types.User
	admin      *types.User
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
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

	notifier := NewNotifier(log, notifications, nil)
	workflow := NewWorkflowService(gdb, log, subs, stages, users, notifier)
	submission := NewSubmissionService(gdb, log, subs, runs, workflow)

	f := &workflowFixture{
		db:         gdb,
		users:      users,
		subs:       subs,
		stages:     stages,
		runs:       runs,
		workflow:   workflow,
		submission: submission,
	}
	f.author = f.mustCreateUser(t, "author@example.com", types.RoleStudent)
	f.reviewer = f.mustCreateUser(t, "reviewer@example.com", types.RoleReviewer)
	f.editor = f.mustCreateUser(t, "editor@example.com", types.RoleEditor)
	f.operations = f.mustCreateUser(t, "ops@example.com", types.RoleOperations)
	f.admin = f.mustCreateUser(t, "admin@example.com", types.RoleAdmin)
	return f
}

func (f *workflowFixture) mustCreateUser(t *testing.T, email, role string) *types.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), nil, &types.User{
		Email:        email,
		Name:         email,
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func rdFor(user *types.User) *requestdata.RequestData {
	return &requestdata.RequestData{UserID: user.ID, Role: user.Role}
}

func (f *workflowFixture) mustCreateSubmission(t *testing.T) *types.Submission {
	t.Helper()
	submission, err := f.submission.Create(context.Background(), rdFor(f.author), "The Lost Cat", "Maya said hello. Maya found the cat.")
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return submission
}

func (f *workflowFixture) stageRows(t *testing.T, submissionID uuid.UUID) []*types.WorkflowStage {
	t.Helper()
	rows, err := f.stages.ListBySubmission(context.Background(), nil, submissionID)
	if err != nil {
		t.Fatalf("list stages: %v", err)
	}
	return rows
}

func (f *workflowFixture) reload(t *testing.T, submissionID uuid.UUID) *types.Submission {
	t.Helper()
	submission, err := f.subs.GetByID(context.Background(), nil, submissionID)
	if err != nil {
		t.Fatalf("reload submission: %v", err)
	}
	if submission == nil {
		t.Fatal("submission disappeared")
	}
	return submission
}

func assertStrictlyIncreasing(t *testing.T, rows []*types.WorkflowStage) {
	t.Helper()
	for i, row := range rows {
		if row.StageNumber != i+1 {
			t.Fatalf("stage numbers not contiguous: row %d has number %d", i, row.StageNumber)
		}
	}
}

func TestCreateSubmissionOpensAnalysisStage(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	if submission.CurrentStage != types.StageAnalysis {
		t.Fatalf("currentStage=%q, want ANALYSIS", submission.CurrentStage)
	}

	rows := f.stageRows(t, submission.ID)
	if len(rows) != 1 {
		t.Fatalf("expected exactly one stage row, got %d", len(rows))
	}
	if rows[0].StageNumber != 1 || rows[0].StageName != types.StageAnalysis || rows[0].Status != types.StageStatusInProgress {
		t.Fatalf("unexpected initial stage row: %+v", rows[0])
	}
	if rows[0].StartedAt == nil {
		t.Fatal("initial stage must have startedAt set")
	}
	if submission.CreatedAt.IsZero() || rows[0].CreatedAt.IsZero() {
		t.Fatal("timestamps must be populated on insert")
	}
}

func TestCompleteAnalysisAdvancesToPlagiarismReview(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	err := f.workflow.CompleteAnalysis(context.Background(), submission.ID, analysis.NeutralResult(), analysis.Stats{FallbackCount: 3})
	if err != nil {
		t.Fatalf("complete analysis: %v", err)
	}

	reloaded := f.reload(t, submission.ID)
	if reloaded.CurrentStage != types.StagePlagiarismReview {
		t.Fatalf("currentStage=%q, want PLAGIARISM_REVIEW", reloaded.CurrentStage)
	}
	if len(reloaded.AnalysisResult) == 0 {
		t.Fatal("analysis result not persisted")
	}
	if reloaded.AnalysisNote == "" {
		t.Fatal("degraded analysis must carry a note")
	}

	rows := f.stageRows(t, submission.ID)
	if len(rows) != 2 {
		t.Fatalf("expected 2 stage rows, got %d", len(rows))
	}
	if rows[0].Status != types.StageStatusCompleted || rows[0].CompletedAt == nil {
		t.Fatalf("ANALYSIS row not closed: %+v", rows[0])
	}
	if rows[1].StageName != types.StagePlagiarismReview || rows[1].Status != types.StageStatusPending || rows[1].StageNumber != 2 {
		t.Fatalf("unexpected PLAGIARISM_REVIEW row: %+v", rows[1])
	}
	assertStrictlyIncreasing(t, rows)
}

func TestCompleteAnalysisNeverRegressesAdvancedSubmission(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	// An admin skips ahead while the analysis is still running.
	if _, err := f.workflow.SetStage(context.Background(), rdFor(f.admin), submission.ID, types.StageEditorMeeting, "skipping ahead"); err != nil {
		t.Fatalf("set stage: %v", err)
	}
	rowsBefore := f.stageRows(t, submission.ID)

	err := f.workflow.CompleteAnalysis(context.Background(), submission.ID, analysis.NeutralResult(), analysis.Stats{})
	if !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}

	reloaded := f.reload(t, submission.ID)
	if reloaded.CurrentStage != types.StageEditorMeeting {
		t.Fatalf("analysis completion regressed stage to %q", reloaded.CurrentStage)
	}
	if len(reloaded.AnalysisResult) != 0 {
		t.Fatal("discarded analysis must not be persisted")
	}

	rowsAfter := f.stageRows(t, submission.ID)
	if len(rowsAfter) != len(rowsBefore) {
		t.Fatalf("stage rows changed %d -> %d", len(rowsBefore), len(rowsAfter))
	}
	last := rowsAfter[len(rowsAfter)-1]
	if last.StageName != types.StageEditorMeeting || last.Status != types.StageStatusPending {
		t.Fatalf("open EDITOR_MEETING row was touched: %+v", last)
	}
}

func TestSubmitReviewPassedAdvances(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)
	if err := f.workflow.CompleteAnalysis(context.Background(), submission.ID, analysis.NeutralResult(), analysis.Stats{}); err != nil {
		t.Fatalf("complete analysis: %v", err)
	}

	updated, err := f.workflow.SubmitReview(context.Background(), rdFor(f.reviewer), submission.ID, 3.5, "clean", true)
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if updated.CurrentStage != types.StageEditorMeeting {
		t.Fatalf("currentStage=%q, want EDITOR_MEETING", updated.CurrentStage)
	}

	reloaded := f.reload(t, submission.ID)
	if reloaded.PlagiarismScore == nil || *reloaded.PlagiarismScore != 3.5 {
		t.Fatalf("plagiarism score not persisted: %+v", reloaded.PlagiarismScore)
	}
	if reloaded.PlagiarismNotes != "clean" {
		t.Fatalf("plagiarism notes not persisted: %q", reloaded.PlagiarismNotes)
	}

	rows := f.stageRows(t, submission.ID)
	if len(rows) != 3 {
		t.Fatalf("expected 3 stage rows, got %d", len(rows))
	}
	if rows[2].StageName != types.StageEditorMeeting || rows[2].StageNumber != 3 {
		t.Fatalf("unexpected third row: %+v", rows[2])
	}
	assertStrictlyIncreasing(t, rows)
}

func TestSubmitReviewFailedHoldsStage(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)
	if err := f.workflow.CompleteAnalysis(context.Background(), submission.ID, analysis.NeutralResult(), analysis.Stats{}); err != nil {
		t.Fatalf("complete analysis: %v", err)
	}

	updated, err := f.workflow.SubmitReview(context.Background(), rdFor(f.reviewer), submission.ID, 8.2, "too similar", false)
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}
	if updated.CurrentStage != types.StagePlagiarismReview {
		t.Fatalf("failed verdict must hold PLAGIARISM_REVIEW, got %q", updated.CurrentStage)
	}

	rows := f.stageRows(t, submission.ID)
	if len(rows) != 2 {
		t.Fatalf("failed verdict must not open a new row, got %d rows", len(rows))
	}
	if rows[1].Status != types.StageStatusCompleted {
		t.Fatalf("review stage row should be closed, got %+v", rows[1])
	}

	// A later re-review can still pass.
	updated, err = f.workflow.SubmitReview(context.Background(), rdFor(f.reviewer), submission.ID, 1.0, "rechecked", true)
	if err != nil {
		t.Fatalf("re-review: %v", err)
	}
	if updated.CurrentStage != types.StageEditorMeeting {
		t.Fatalf("re-review pass should advance, got %q", updated.CurrentStage)
	}
	assertStrictlyIncreasing(t, f.stageRows(t, submission.ID))
}

func TestSubmitReviewGuards(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	// Wrong stage: still in ANALYSIS.
	if _, err := f.workflow.SubmitReview(context.Background(), rdFor(f.reviewer), submission.ID, 1, "", true); !errors.Is(err, ErrInvalidStage) {
		t.Fatalf("expected ErrInvalidStage, got %v", err)
	}

	if err := f.workflow.CompleteAnalysis(context.Background(), submission.ID, analysis.NeutralResult(), analysis.Stats{}); err != nil {
		t.Fatalf("complete analysis: %v", err)
	}

	// Wrong role.
	if _, err := f.workflow.SubmitReview(context.Background(), rdFor(f.author), submission.ID, 1, "", true); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	reloaded := f.reload(t, submission.ID)
	if reloaded.PlagiarismScore != nil {
		t.Fatal("rejected review must not persist a score")
	}
	if len(f.stageRows(t, submission.ID)) != 2 {
		t.Fatal("rejected review must not touch stage rows")
	}
}

func TestSetStageAuthorization(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	cases := []struct {
		name   string
		rd     *requestdata.RequestData
		target string
	}{
		{name: "student", rd: rdFor(f.author), target: types.StageEditorMeeting},
		{name: "unassigned_editor", rd: rdFor(f.editor), target: types.StageEditorMeeting},
		{name: "operations_outside_owned_stages", rd: rdFor(f.operations), target: types.StageEditorMeeting},
		{name: "nil_requestdata", rd: nil, target: types.StageEditorMeeting},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.workflow.SetStage(context.Background(), tc.rd, submission.ID, tc.target, "")
			if !errors.Is(err, ErrNotAuthorized) {
				t.Fatalf("expected ErrNotAuthorized, got %v", err)
			}
			reloaded := f.reload(t, submission.ID)
			if reloaded.CurrentStage != types.StageAnalysis {
				t.Fatalf("unauthorized attempt changed stage to %q", reloaded.CurrentStage)
			}
			if rows := f.stageRows(t, submission.ID); len(rows) != 1 {
				t.Fatalf("unauthorized attempt changed stage rows: %d", len(rows))
			}
		})
	}
}

func TestSetStageByRoles(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	// Admin can move anywhere.
	updated, err := f.workflow.SetStage(context.Background(), rdFor(f.admin), submission.ID, types.StageEditorMeeting, "skipping ahead")
	if err != nil {
		t.Fatalf("admin set stage: %v", err)
	}
	if updated.CurrentStage != types.StageEditorMeeting {
		t.Fatalf("currentStage=%q, want EDITOR_MEETING", updated.CurrentStage)
	}

	// Assigned editor can move within editor-owned stages.
	if _, err := f.workflow.AssignEditor(context.Background(), rdFor(f.admin), submission.ID, f.editor.ID); err != nil {
		t.Fatalf("assign editor: %v", err)
	}
	if _, err := f.workflow.SetStage(context.Background(), rdFor(f.editor), submission.ID, types.StageApprovalProcess, "approved"); err != nil {
		t.Fatalf("editor set stage: %v", err)
	}

	// Operations owns PDF_REVIEW and COVER_APPROVAL.
	if _, err := f.workflow.SetStage(context.Background(), rdFor(f.operations), submission.ID, types.StagePDFReview, "pdf ready"); err != nil {
		t.Fatalf("operations set stage: %v", err)
	}

	rows := f.stageRows(t, submission.ID)
	assertStrictlyIncreasing(t, rows)
	last := rows[len(rows)-1]
	if last.StageName != types.StagePDFReview || last.Status != types.StageStatusPending {
		t.Fatalf("unexpected last row: %+v", last)
	}
}

func TestSetStageCompletedCreatesNoRow(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	before := len(f.stageRows(t, submission.ID))
	updated, err := f.workflow.SetStage(context.Background(), rdFor(f.admin), submission.ID, types.StageCompleted, "done")
	if err != nil {
		t.Fatalf("set stage completed: %v", err)
	}
	if updated.CurrentStage != types.StageCompleted {
		t.Fatalf("currentStage=%q, want COMPLETED", updated.CurrentStage)
	}

	rows := f.stageRows(t, submission.ID)
	if len(rows) != before {
		t.Fatalf("COMPLETED must not open a new stage row, rows went %d -> %d", before, len(rows))
	}
	for _, row := range rows {
		if row.Status != types.StageStatusCompleted {
			t.Fatalf("open stage row left behind: %+v", row)
		}
	}
}

func TestAssignEditorDoesNotAdvanceStage(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	updated, err := f.workflow.AssignEditor(context.Background(), rdFor(f.admin), submission.ID, f.editor.ID)
	if err != nil {
		t.Fatalf("assign editor: %v", err)
	}
	if updated.EditorID == nil || *updated.EditorID != f.editor.ID {
		t.Fatal("editor not assigned")
	}
	if updated.CurrentStage != types.StageAnalysis {
		t.Fatalf("assignment advanced the stage to %q", updated.CurrentStage)
	}
	if rows := f.stageRows(t, submission.ID); len(rows) != 1 {
		t.Fatalf("assignment touched stage rows: %d", len(rows))
	}

	// Only admins assign.
	if _, err := f.workflow.AssignEditor(context.Background(), rdFor(f.editor), submission.ID, f.editor.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	// The assignee must actually be an editor.
	if _, err := f.workflow.AssignEditor(context.Background(), rdFor(f.admin), submission.ID, f.author.ID); err == nil {
		t.Fatal("expected error assigning a non-editor")
	}
}

func TestStageHistoryVisibility(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)
	otherStudent := f.mustCreateUser(t, "other@example.com", types.RoleStudent)

	rows, err := f.workflow.StageHistory(context.Background(), rdFor(f.author), submission.ID)
	if err != nil {
		t.Fatalf("author history: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 stage row, got %d", len(rows))
	}

	if _, err := f.workflow.StageHistory(context.Background(), rdFor(otherStudent), submission.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for another student, got %v", err)
	}
	if _, err := f.workflow.StageHistory(context.Background(), nil, submission.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized without request data, got %v", err)
	}

	// Staff roles see any trail.
	if _, err := f.workflow.StageHistory(context.Background(), rdFor(f.reviewer), submission.ID); err != nil {
		t.Fatalf("reviewer history: %v", err)
	}

	if _, err := f.workflow.StageHistory(context.Background(), rdFor(f.admin), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown submission, got %v", err)
	}
}

func TestCreateSubmissionEnqueuesAnalysisRun(t *testing.T) {
	f := newWorkflowFixture(t)
	submission := f.mustCreateSubmission(t)

	var runs []*types.AnalysisRun
	if err := f.db.Where("submission_id = ?", submission.ID).Find(&runs).Error; err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one queued run, got %d", len(runs))
	}
	if runs[0].Status != types.RunStatusQueued || runs[0].JobType != types.JobTypeSubmissionAnalysis {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
}
