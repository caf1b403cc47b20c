package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arunlc/AI-Writing-Companion-sub001/internal/logger"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/requestdata"
	"github.com/arunlc/AI-Writing-Companion-sub001/internal/services"
)

type SubmissionHandler struct {
	log               *logger.Logger
	submissionService services.SubmissionService
	workflowService   services.WorkflowService
}

func NewSubmissionHandler(log *logger.Logger, submissionService services.SubmissionService, workflowService services.WorkflowService) *SubmissionHandler {
	return &SubmissionHandler{
		log:               log.With("handler", "SubmissionHandler"),
		submissionService: submissionService,
		workflowService:   workflowService,
	}
}

type createSubmissionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	submission, err := h.submissionService.Create(c.Request.Context(), rd, req.Title, req.Content)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission": submission})
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	submission, err := h.submissionService.Get(c.Request.Context(), rd, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"submission": submission})
}

func (h *SubmissionHandler) ListMine(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	submissions, err := h.submissionService.ListMine(c.Request.Context(), rd)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) ListByStage(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	submissions, err := h.submissionService.ListByStage(c.Request.Context(), rd, c.Query("stage"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) StageHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	stages, err := h.workflowService.StageHistory(c.Request.Context(), rd, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"stages": stages})
}
