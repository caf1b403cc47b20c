package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workflow stage names, in editorial order. COMPLETED is terminal and
// never gets its own WorkflowStage row.
const (
	StageAnalysis         = "ANALYSIS"
	StagePlagiarismReview = "PLAGIARISM_REVIEW"
	StageEditorMeeting    = "EDITOR_MEETING"
	StageApprovalProcess  = "APPROVAL_PROCESS"
	StagePDFReview        = "PDF_REVIEW"
	StageCoverApproval    = "COVER_APPROVAL"
	StageEventPlanning    = "EVENT_PLANNING"
	StageCompleted        = "COMPLETED"
)

// StageOrder maps a stage name to its position in the workflow.
var StageOrder = map[string]int{
	StageAnalysis:         1,
	StagePlagiarismReview: 2,
	StageEditorMeeting:    3,
	StageApprovalProcess:  4,
	StagePDFReview:        5,
	StageCoverApproval:    6,
	StageEventPlanning:    7,
	StageCompleted:        8,
}

type Submission struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	EditorID        *uuid.UUID     `gorm:"type:uuid;index" json:"editor_id,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Content         string         `gorm:"column:content;type:text;not null" json:"content"`
	CurrentStage    string         `gorm:"column:current_stage;not null;index" json:"current_stage"`
	AnalysisResult  datatypes.JSON `gorm:"column:analysis_result;type:jsonb" json:"analysis_result,omitempty"`
	AnalysisNote    string         `gorm:"column:analysis_note" json:"analysis_note,omitempty"`
	PlagiarismScore *float64       `gorm:"column:plagiarism_score" json:"plagiarism_score,omitempty"`
	PlagiarismNotes string         `gorm:"column:plagiarism_notes" json:"plagiarism_notes,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Submission) TableName() string { return "submission" }
