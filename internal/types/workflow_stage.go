package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	StageStatusPending    = "pending"
	StageStatusInProgress = "in_progress"
	StageStatusCompleted  = "completed"
)

// WorkflowStage is one record of the append-only stage audit trail.
// Rows are never deleted; a stage is closed by marking it completed
// and opening a new row with the next stage number.
type WorkflowStage struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"submission_id"`
	StageNumber    int        `gorm:"column:stage_number;not null" json:"stage_number"`
	StageName      string     `gorm:"column:stage_name;not null" json:"stage_name"`
	Status         string     `gorm:"column:status;not null;index" json:"status"`
	AssignedUserID *uuid.UUID `gorm:"type:uuid" json:"assigned_user_id,omitempty"`
	Notes          string     `gorm:"column:notes" json:"notes,omitempty"`
	StartedAt      *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (WorkflowStage) TableName() string { return "workflow_stage" }
