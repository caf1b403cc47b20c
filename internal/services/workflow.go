package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/analysis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/requestdata"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

var (
	ErrNotAuthorized = errors.New("not authorized for this transition")
	ErrInvalidStage  = errors.New("transition not valid from the current stage")
	ErrNotFound      = errors.New("submission not found")
)

// WorkflowService drives a submission through the ordered editorial
// stages. Every transition that touches both the submission and its
// stage trail runs in one transaction; on failure nothing is applied.
type WorkflowService interface {
	// OpenInitialStage creates the ANALYSIS stage row for a freshly
	// created submission, inside the caller's transaction.
	OpenInitialStage(ctx context.Context, tx *gorm.DB, submission *types.Submission) error

	// CompleteAnalysis attaches the analysis result and advances
	// ANALYSIS to PLAGIARISM_REVIEW. A degraded result advances the
	// workflow exactly like a clean one; a submission that already
	// left ANALYSIS is left untouched and ErrInvalidStage is returned.
	CompleteAnalysis(ctx context.Context, submissionID uuid.UUID, result *analysis.Result, stats analysis.Stats) error

	// SubmitReview records a plagiarism verdict. Passed advances to
	// EDITOR_MEETING; failed holds the submission in PLAGIARISM_REVIEW
	// for re-review.
	SubmitReview(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID, score float64, notes string, passed bool) (*types.Submission, error)

	// SetStage is the role-gated manual transition.
	SetStage(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID, targetStage, notes string) (*types.Submission, error)

	// AssignEditor sets the submission's editor without advancing the
	// stage.
	AssignEditor(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID, editorID uuid.UUID) (*types.Submission, error)

	// StageHistory returns the audit trail, with the same visibility
	// rules as reading the submission itself.
	StageHistory(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID) ([]*types.WorkflowStage, error)
}

type workflowService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	stageRepo      repos.WorkflowStageRepo
	userRepo       repos.UserRepo
	notifier       Notifier
}

func NewWorkflowService(
	db *gorm.DB,
	baseLog *logger.Logger,
	submissionRepo repos.SubmissionRepo,
	stageRepo repos.WorkflowStageRepo,
	userRepo repos.UserRepo,
	notifier Notifier,
) WorkflowService {
	return &workflowService{
		db:             db,
		log:            baseLog.With("service", "WorkflowService"),
		submissionRepo: submissionRepo,
		stageRepo:      stageRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

// Stages an assigned editor may move a submission into.
var editorStages = map[string]bool{
	types.StageEditorMeeting:   true,
	types.StageApprovalProcess: true,
	types.StageEventPlanning:   true,
	types.StageCompleted:       true,
}

// Stages the operations role owns.
var operationsStages = map[string]bool{
	types.StagePDFReview:     true,
	types.StageCoverApproval: true,
}

func (s *workflowService) OpenInitialStage(ctx context.Context, tx *gorm.DB, submission *types.Submission) error {
	now := time.Now()
	_, err := s.stageRepo.Create(ctx, tx, &types.WorkflowStage{
		SubmissionID: submission.ID,
		StageNumber:  1,
		StageName:    types.StageAnalysis,
		Status:       types.StageStatusInProgress,
		StartedAt:    &now,
	})
	if err != nil {
		return fmt.Errorf("open initial stage: %w", err)
	}
	return nil
}

func (s *workflowService) CompleteAnalysis(ctx context.Context, submissionID uuid.UUID, result *analysis.Result, stats analysis.Stats) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}

	note := ""
	stageNote := "Automated analysis completed"
	if stats.Degraded() {
		note = "Analysis computed mostly from fallback heuristics; external services were unavailable"
		stageNote = "Automated analysis completed (degraded: fallback-heavy)"
	}

	var submission *types.Submission
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		submission, txErr = s.submissionRepo.GetByID(ctx, tx, submissionID)
		if txErr != nil {
			return txErr
		}
		if submission == nil {
			return ErrNotFound
		}
		// A manual SetStage may have landed while the analysis ran;
		// never regress a submission that already moved on.
		if submission.CurrentStage != types.StageAnalysis {
			return fmt.Errorf("%w: submission is in %s, not %s", ErrInvalidStage, submission.CurrentStage, types.StageAnalysis)
		}

		updates := map[string]interface{}{
			"analysis_result": raw,
			"analysis_note":   note,
			"current_stage":   types.StagePlagiarismReview,
			"updated_at":      time.Now(),
		}
		if txErr = s.submissionRepo.UpdateFields(ctx, tx, submissionID, updates); txErr != nil {
			return txErr
		}
		if txErr = s.closeCurrentStage(ctx, tx, submissionID, stageNote, nil); txErr != nil {
			return txErr
		}
		return s.openStage(ctx, tx, submissionID, types.StagePlagiarismReview, types.StageStatusPending, nil)
	})
	if err != nil {
		return fmt.Errorf("complete analysis transition: %w", err)
	}

	s.notifier.Notify(ctx, submission.AuthorID, types.NotificationAnalysisReady,
		"Analysis ready",
		`Your submission "`+submission.Title+`" has been analyzed and moved to plagiarism review`,
		map[string]any{"submission_id": submissionID.String(), "degraded": stats.Degraded()})
	s.log.Info("Analysis stage closed",
		"submission_id", submissionID,
		"degraded", stats.Degraded(),
		"fallbacks", stats.FallbackCount,
	)
	return nil
}

func (s *workflowService) SubmitReview(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID, score float64, notes string, passed bool) (*types.Submission, error) {
	if rd == nil || (rd.Role != types.RoleReviewer && rd.Role != types.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	var submission *types.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		submission, txErr = s.submissionRepo.GetByID(ctx, tx, submissionID)
		if txErr != nil {
			return txErr
		}
		if submission == nil {
			return ErrNotFound
		}
		if submission.CurrentStage != types.StagePlagiarismReview {
			return ErrInvalidStage
		}

		updates := map[string]interface{}{
			"plagiarism_score": score,
			"plagiarism_notes": notes,
			"updated_at":       time.Now(),
		}
		if passed {
			updates["current_stage"] = types.StageEditorMeeting
		}
		if txErr = s.submissionRepo.UpdateFields(ctx, tx, submissionID, updates); txErr != nil {
			return txErr
		}

		if txErr = s.closeCurrentStage(ctx, tx, submissionID, notes, &rd.UserID); txErr != nil {
			return txErr
		}
		if passed {
			if txErr = s.openStage(ctx, tx, submissionID, types.StageEditorMeeting, types.StageStatusPending, nil); txErr != nil {
				return txErr
			}
			submission.CurrentStage = types.StageEditorMeeting
		}
		submission.PlagiarismScore = &score
		submission.PlagiarismNotes = notes
		return nil
	})
	if err != nil {
		return nil, err
	}

	verdict := "failed"
	if passed {
		verdict = "passed"
	}
	s.notifier.Notify(ctx, submission.AuthorID, types.NotificationReviewVerdict,
		"Plagiarism review "+verdict,
		`Your submission "`+submission.Title+`" `+verdict+` plagiarism review`,
		map[string]any{"submission_id": submissionID.String(), "passed": passed, "score": score})
	if passed {
		s.notifyStageChange(ctx, submission, types.StageEditorMeeting)
	}
	s.log.Info("Plagiarism verdict recorded",
		"submission_id", submissionID,
		"reviewer_id", rd.UserID,
		"passed", passed,
		"score", score,
	)
	return submission, nil
}

func (s *workflowService) SetStage(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID, targetStage, notes string) (*types.Submission, error) {
	if rd == nil {
		return nil, ErrNotAuthorized
	}
	if _, ok := types.StageOrder[targetStage]; !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidStage, targetStage)
	}

	var submission *types.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		submission, txErr = s.submissionRepo.GetByID(ctx, tx, submissionID)
		if txErr != nil {
			return txErr
		}
		if submission == nil {
			return ErrNotFound
		}
		if submission.CurrentStage == targetStage {
			return fmt.Errorf("%w: submission already in %s", ErrInvalidStage, targetStage)
		}
		if !s.allowedToSetStage(rd, submission, targetStage) {
			return ErrNotAuthorized
		}

		updates := map[string]interface{}{
			"current_stage": targetStage,
			"updated_at":    time.Now(),
		}
		if txErr = s.submissionRepo.UpdateFields(ctx, tx, submissionID, updates); txErr != nil {
			return txErr
		}
		if txErr = s.closeCurrentStage(ctx, tx, submissionID, notes, &rd.UserID); txErr != nil {
			return txErr
		}
		if targetStage != types.StageCompleted {
			if txErr = s.openStage(ctx, tx, submissionID, targetStage, types.StageStatusPending, &rd.UserID); txErr != nil {
				return txErr
			}
		}
		submission.CurrentStage = targetStage
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStageChange(ctx, submission, targetStage)
	s.log.Info("Stage set manually",
		"submission_id", submissionID,
		"target_stage", targetStage,
		"actor_id", rd.UserID,
		"actor_role", rd.Role,
	)
	return submission, nil
}

func (s *workflowService) allowedToSetStage(rd *requestdata.RequestData, submission *types.Submission, targetStage string) bool {
	switch rd.Role {
	case types.RoleAdmin:
		return true
	case types.RoleEditor:
		return submission.EditorID != nil && *submission.EditorID == rd.UserID && editorStages[targetStage]
	case types.RoleOperations:
		return operationsStages[targetStage]
	default:
		return false
	}
}

func (s *workflowService) AssignEditor(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID, editorID uuid.UUID) (*types.Submission, error) {
	if rd == nil || rd.Role != types.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	editor, err := s.userRepo.GetByID(ctx, nil, editorID)
	if err != nil {
		return nil, fmt.Errorf("lookup editor: %w", err)
	}
	if editor == nil || (editor.Role != types.RoleEditor && editor.Role != types.RoleAdmin) {
		return nil, fmt.Errorf("user %s is not an editor", editorID)
	}

	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	if err := s.submissionRepo.UpdateFields(ctx, nil, submissionID, map[string]interface{}{
		"editor_id":  editorID,
		"updated_at": time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("assign editor: %w", err)
	}
	submission.EditorID = &editorID

	s.notifier.Notify(ctx, editorID, types.NotificationEditorAssigned,
		"Submission assigned",
		`You have been assigned "`+submission.Title+`"`,
		map[string]any{"submission_id": submissionID.String()})
	return submission, nil
}

func (s *workflowService) StageHistory(ctx context.Context, rd *requestdata.RequestData, submissionID uuid.UUID) ([]*types.WorkflowStage, error) {
	if rd == nil {
		return nil, ErrNotAuthorized
	}
	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrNotFound
	}
	if (rd.Role == types.RoleStudent || rd.Role == "") && submission.AuthorID != rd.UserID {
		return nil, ErrNotAuthorized
	}
	return s.stageRepo.ListBySubmission(ctx, nil, submissionID)
}

// closeCurrentStage marks the open stage row completed. A submission
// held after a failed verdict has no open row; that is not an error.
func (s *workflowService) closeCurrentStage(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, notes string, actorID *uuid.UUID) error {
	current, err := s.stageRepo.GetCurrent(ctx, tx, submissionID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":       types.StageStatusCompleted,
		"completed_at": now,
		"updated_at":   now,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	if actorID != nil {
		updates["assigned_user_id"] = *actorID
	}
	return s.stageRepo.UpdateFields(ctx, tx, current.ID, updates)
}

// openStage appends the next stage row. Stage numbers are allocated
// max+1 so the trail stays strictly increasing with no gaps even when
// stages are skipped or revisited.
func (s *workflowService) openStage(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, stageName, status string, assignedTo *uuid.UUID) error {
	maxNumber, err := s.stageRepo.MaxStageNumber(ctx, tx, submissionID)
	if err != nil {
		return err
	}
	stage := &types.WorkflowStage{
		SubmissionID:   submissionID,
		StageNumber:    maxNumber + 1,
		StageName:      stageName,
		Status:         status,
		AssignedUserID: assignedTo,
	}
	if status == types.StageStatusInProgress {
		now := time.Now()
		stage.StartedAt = &now
	}
	_, err = s.stageRepo.Create(ctx, tx, stage)
	return err
}

func (s *workflowService) notifyStageChange(ctx context.Context, submission *types.Submission, stageName string) {
	affected := []uuid.UUID{submission.AuthorID}
	if submission.EditorID != nil {
		affected = append(affected, *submission.EditorID)
	}
	s.notifier.StageChanged(ctx, submission, stageName, affected)
}
