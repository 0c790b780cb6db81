package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/models"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db/repository"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// AnalyzeHandler handles analyze job submission and status lookups.
type AnalyzeHandler struct {
	jobRepo repository.JobRepository
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(jobRepo repository.JobRepository) *AnalyzeHandler {
	return &AnalyzeHandler{jobRepo: jobRepo}
}

type analyzeRequest struct {
	URL string `json:"url"`
}

// SubmitJob handles POST /api/v1/analyze. The URL is validated lazily: a
// blank URL is rejected here, anything else is handed to the worker, which
// records parse and lookup failures on the job itself.
func (h *AnalyzeHandler) SubmitJob(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		sendError(c, http.StatusBadRequest, "url is required")
		return
	}

	job := models.NewAnalyzeJob(userID, req.URL)
	if err := h.jobRepo.Create(c.Request.Context(), job); err != nil {
		logger.Log.Error("Failed to create analyze job",
			zap.Int64("user_id", userID),
			zap.Error(err))
		sendDomainError(c, err)
		return
	}

	logger.Log.Info("Analyze job accepted",
		zap.String("job_id", job.ID.String()),
		zap.Int64("user_id", userID),
		zap.String("url", req.URL))

	c.JSON(http.StatusAccepted, job)
}

// GetJob handles GET /api/v1/analyze/jobs/:id. Jobs are scoped to their
// owner; another user's job id reads as not found.
func (h *AnalyzeHandler) GetJob(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "job id must be a valid UUID")
		return
	}

	job, err := h.jobRepo.GetByIDForUser(c.Request.Context(), jobID, userID)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}
