package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/analysis"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/services"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

// AnalyzeSubmissionHandler runs the analysis orchestrator for a queued
// submission and closes the ANALYSIS stage. The orchestrator itself
// never fails; only persistence problems make the run retryable.
type AnalyzeSubmissionHandler struct {
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	orchestrator   *analysis.Orchestrator
	workflow       services.WorkflowService
}

func NewAnalyzeSubmissionHandler(
	baseLog *logger.Logger,
	submissionRepo repos.SubmissionRepo,
	orchestrator *analysis.Orchestrator,
	workflow services.WorkflowService,
) *AnalyzeSubmissionHandler {
	return &AnalyzeSubmissionHandler{
		log:            baseLog.With("handler", "AnalyzeSubmission"),
		submissionRepo: submissionRepo,
		orchestrator:   orchestrator,
		workflow:       workflow,
	}
}

func (h *AnalyzeSubmissionHandler) Run(ctx context.Context, run *types.AnalysisRun) error {
	submission, err := h.submissionRepo.GetByID(ctx, nil, run.SubmissionID)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}
	if submission == nil {
		return fmt.Errorf("submission %s not found", run.SubmissionID)
	}
	if submission.CurrentStage != types.StageAnalysis {
		// Already advanced, likely a reclaimed stale run.
		h.log.Warn("Skipping analysis for submission past the ANALYSIS stage",
			"submission_id", submission.ID,
			"current_stage", submission.CurrentStage,
		)
		return nil
	}

	result, stats := h.orchestrator.Analyze(ctx, submission.Content, submission.Title)

	if err := h.workflow.CompleteAnalysis(ctx, submission.ID, result, stats); err != nil {
		if errors.Is(err, services.ErrInvalidStage) {
			// The submission moved on while the analysis was running.
			h.log.Warn("Submission advanced during analysis, discarding transition",
				"submission_id", submission.ID,
			)
			return nil
		}
		return fmt.Errorf("close analysis stage: %w", err)
	}
	return nil
}
