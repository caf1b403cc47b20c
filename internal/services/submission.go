package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/repos"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/requestdata"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

type SubmissionService interface {
	// Create persists the submission, opens the ANALYSIS stage and
	// enqueues the background analysis run, all in one transaction.
	// The request returns immediately; the worker pool does the rest.
	Create(ctx context.Context, rd *requestdata.RequestData, title, content string) (*types.Submission, error)
	Get(ctx context.Context, rd *requestdata.RequestData, id uuid.UUID) (*types.Submission, error)
	ListMine(ctx context.Context, rd *requestdata.RequestData) ([]*types.Submission, error)
	ListByStage(ctx context.Context, rd *requestdata.RequestData, stage string) ([]*types.Submission, error)
}

type submissionService struct {
	db             *gorm.DB
	log            *logger.Logger
	submissionRepo repos.SubmissionRepo
	runRepo        repos.AnalysisRunRepo
	workflow       WorkflowService
}

func NewSubmissionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	submissionRepo repos.SubmissionRepo,
	runRepo repos.AnalysisRunRepo,
	workflow WorkflowService,
) SubmissionService {
	return &submissionService{
		db:             db,
		log:            baseLog.With("service", "SubmissionService"),
		submissionRepo: submissionRepo,
		runRepo:        runRepo,
		workflow:       workflow,
	}
}

func (s *submissionService) Create(ctx context.Context, rd *requestdata.RequestData, title, content string) (*types.Submission, error) {
	if rd == nil {
		return nil, ErrNotAuthorized
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	var submission *types.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		submission, txErr = s.submissionRepo.Create(ctx, tx, &types.Submission{
			AuthorID:     rd.UserID,
			Title:        title,
			Content:      content,
			CurrentStage: types.StageAnalysis,
		})
		if txErr != nil {
			return txErr
		}
		if txErr = s.workflow.OpenInitialStage(ctx, tx, submission); txErr != nil {
			return txErr
		}
		_, txErr = s.runRepo.Enqueue(ctx, tx, &types.AnalysisRun{
			SubmissionID: submission.ID,
			OwnerUserID:  rd.UserID,
			JobType:      types.JobTypeSubmissionAnalysis,
		})
		return txErr
	})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.log.Info("Submission created, analysis queued",
		"submission_id", submission.ID,
		"author_id", rd.UserID,
	)
	return submission, nil
}

func (s *submissionService) Get(ctx context.Context, rd *requestdata.RequestData, id uuid.UUID) (*types.Submission, error) {
	if rd == nil {
		return nil, ErrNotAuthorized
	}
	submission, err := s.submissionRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrNotFound
	}
	if !s.canSee(rd, submission) {
		return nil, ErrNotAuthorized
	}
	return submission, nil
}

// Students see only their own work; staff roles see everything.
func (s *submissionService) canSee(rd *requestdata.RequestData, submission *types.Submission) bool {
	if rd.Role != types.RoleStudent && rd.Role != "" {
		return true
	}
	return submission.AuthorID == rd.UserID
}

func (s *submissionService) ListMine(ctx context.Context, rd *requestdata.RequestData) ([]*types.Submission, error) {
	if rd == nil {
		return nil, ErrNotAuthorized
	}
	return s.submissionRepo.ListByAuthor(ctx, nil, rd.UserID)
}

func (s *submissionService) ListByStage(ctx context.Context, rd *requestdata.RequestData, stage string) ([]*types.Submission, error) {
	if rd == nil || rd.Role == types.RoleStudent {
		return nil, ErrNotAuthorized
	}
	if _, ok := types.StageOrder[stage]; !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidStage, stage)
	}
	return s.submissionRepo.ListByStage(ctx, nil, stage)
}
