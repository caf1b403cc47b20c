package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/requestdata"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/services"
)

type WorkflowHandler struct {
	log             *logger.Logger
	workflowService services.WorkflowService
}

func NewWorkflowHandler(log *logger.Logger, workflowService services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		log:             log.With("handler", "WorkflowHandler"),
		workflowService: workflowService,
	}
}

type submitReviewRequest struct {
	Score  float64 `json:"score"`
	Notes  string  `json:"notes"`
	Passed bool    `json:"passed"`
}

func (h *WorkflowHandler) SubmitReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	submission, err := h.workflowService.SubmitReview(c.Request.Context(), rd, id, req.Score, req.Notes, req.Passed)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission})
}

type setStageRequest struct {
	Stage string `json:"stage" binding:"required"`
	Notes string `json:"notes"`
}

func (h *WorkflowHandler) SetStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req setStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	submission, err := h.workflowService.SetStage(c.Request.Context(), rd, id, req.Stage, req.Notes)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission})
}

type assignEditorRequest struct {
	EditorID string `json:"editor_id" binding:"required"`
}

func (h *WorkflowHandler) AssignEditor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	var req assignEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	editorID, err := uuid.Parse(req.EditorID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	submission, err := h.workflowService.AssignEditor(c.Request.Context(), rd, id, editorID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission})
}
