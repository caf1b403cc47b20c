package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/types"
)

type WorkflowStageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stage *types.WorkflowStage) (*types.WorkflowStage, error)
	GetCurrent(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.WorkflowStage, error)
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.WorkflowStage, error)
	MaxStageNumber(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (int, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type workflowStageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkflowStageRepo(db *gorm.DB, baseLog *logger.Logger) WorkflowStageRepo {
	return &workflowStageRepo{db: db, log: baseLog.With("repo", "WorkflowStageRepo")}
}

func (r *workflowStageRepo) Create(ctx context.Context, tx *gorm.DB, stage *types.WorkflowStage) (*types.WorkflowStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if stage.ID == uuid.Nil {
		stage.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(stage).Error; err != nil {
		return nil, err
	}
	return stage, nil
}

// GetCurrent returns the single open stage of a submission, the one
// with status pending or in_progress. Nil when the workflow is done.
func (r *workflowStageRepo) GetCurrent(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (*types.WorkflowStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stage types.WorkflowStage
	err := transaction.WithContext(ctx).
		Where("submission_id = ? AND status IN ?", submissionID, []string{types.StageStatusPending, types.StageStatusInProgress}).
		Order("stage_number DESC").
		First(&stage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *workflowStageRepo) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.WorkflowStage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.WorkflowStage
	err := transaction.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("stage_number ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workflowStageRepo) MaxStageNumber(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max int
	err := transaction.WithContext(ctx).
		Model(&types.WorkflowStage{}).
		Where("submission_id = ?", submissionID).
		Select("COALESCE(MAX(stage_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (r *workflowStageRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.WorkflowStage{}).
		Where("id = ?", id).
		Updates(updates).Error
}
