package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/db"
	"github.com/channel-insights/youtube-analytics-ingestion-go/internal/service"
	"github.com/channel-insights/youtube-analytics-ingestion-go/pkg/logger"
)

// DashboardAPI is the read-side analytics surface the handler exposes.
type DashboardAPI interface {
	GetMetrics(ctx context.Context, userID int64, identifier string) (*service.DashboardMetrics, error)
	GetTrends(ctx context.Context, userID int64, identifier string, startDate, endDate *time.Time) (*service.TrendSeries, error)
	GetTopVideos(ctx context.Context, userID int64, identifier string, limit int) ([]service.TopVideo, error)
	GetSentimentSummary(ctx context.Context, userID int64, identifier string) (*service.SentimentSummary, error)
	GetViewGrowth(ctx context.Context, userID int64, identifier, period string) (*service.ViewGrowth, error)
	GetInteractions(ctx context.Context, userID int64, identifier, interactionType string, startDate, endDate *time.Time) (*service.Interactions, error)
	GetOptimalPostingTime(ctx context.Context, userID int64, identifier string) (*service.OptimalPostingTime, error)
	GetCommentsBySentiment(ctx context.Context, userID int64, identifier, sentiment string, limit, offset int) (*service.CommentPage, error)
	GetCommentsByEmotion(ctx context.Context, userID int64, identifier, emotion string, limit, offset int) (*service.CommentPage, error)
	GetEmotionChart(ctx context.Context, userID int64, identifier string) (*service.EmotionChart, error)
}

// DashboardHandler serves the dashboard and analytics endpoints.
type DashboardHandler struct {
	dashboard DashboardAPI
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard DashboardAPI) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetMetrics handles GET /api/v1/dashboard/metrics.
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	metrics, err := h.dashboard.GetMetrics(c.Request.Context(), userID, c.Query("channel_id"))
	if err != nil {
		logDashboardError(c, "metrics", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// GetTrends handles GET /api/v1/dashboard/trends.
func (h *DashboardHandler) GetTrends(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	start, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end")
	if !ok {
		return
	}

	trends, err := h.dashboard.GetTrends(c.Request.Context(), userID, c.Query("channel_id"), start, end)
	if err != nil {
		logDashboardError(c, "trends", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

// GetTopVideos handles GET /api/v1/dashboard/top-videos.
func (h *DashboardHandler) GetTopVideos(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	videos, err := h.dashboard.GetTopVideos(c.Request.Context(), userID, c.Query("channel_id"), limit)
	if err != nil {
		logDashboardError(c, "top videos", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": videos, "total": len(videos)})
}

// GetSentimentSummary handles GET /api/v1/dashboard/sentiment-summary.
func (h *DashboardHandler) GetSentimentSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.dashboard.GetSentimentSummary(c.Request.Context(), userID, c.Query("channel_id"))
	if err != nil {
		logDashboardError(c, "sentiment summary", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetViewGrowth handles GET /api/v1/analytics/view-growth.
func (h *DashboardHandler) GetViewGrowth(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	growth, err := h.dashboard.GetViewGrowth(c.Request.Context(), userID, c.Query("channel_id"), c.Query("period"))
	if err != nil {
		logDashboardError(c, "view growth", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, growth)
}

// GetInteractions handles GET /api/v1/analytics/interactions.
func (h *DashboardHandler) GetInteractions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	start, ok := parseDateParam(c, "start")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end")
	if !ok {
		return
	}

	interactions, err := h.dashboard.GetInteractions(
		c.Request.Context(), userID, c.Query("channel_id"), c.Query("type"), start, end)
	if err != nil {
		logDashboardError(c, "interactions", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, interactions)
}

// GetOptimalPostingTime handles GET /api/v1/analytics/optimal-posting-time.
func (h *DashboardHandler) GetOptimalPostingTime(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.dashboard.GetOptimalPostingTime(c.Request.Context(), userID, c.Query("channel_id"))
	if err != nil {
		logDashboardError(c, "optimal posting time", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCommentsBySentiment handles GET /api/v1/comments/sentiment.
func (h *DashboardHandler) GetCommentsBySentiment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sentiment := c.Query("sentiment")
	if sentiment == "" {
		sendError(c, http.StatusBadRequest, "sentiment is required")
		return
	}
	limit, offset, ok := parsePageParams(c)
	if !ok {
		return
	}

	page, err := h.dashboard.GetCommentsBySentiment(
		c.Request.Context(), userID, c.Query("channel_id"), sentiment, limit, offset)
	if err != nil {
		logDashboardError(c, "comments by sentiment", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetCommentsByEmotion handles GET /api/v1/comments/emotion.
func (h *DashboardHandler) GetCommentsByEmotion(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	emotion := c.Query("emotion")
	if emotion == "" {
		sendError(c, http.StatusBadRequest, "emotion is required")
		return
	}
	limit, offset, ok := parsePageParams(c)
	if !ok {
		return
	}

	page, err := h.dashboard.GetCommentsByEmotion(
		c.Request.Context(), userID, c.Query("channel_id"), emotion, limit, offset)
	if err != nil {
		logDashboardError(c, "comments by emotion", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetEmotionChart handles GET /api/v1/comments/emotion-chart.
func (h *DashboardHandler) GetEmotionChart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	chart, err := h.dashboard.GetEmotionChart(c.Request.Context(), userID, c.Query("channel_id"))
	if err != nil {
		logDashboardError(c, "emotion chart", err)
		sendDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// parsePageParams reads optional limit and offset query parameters.
// Non-numeric values fail the request with 400.
func parsePageParams(c *gin.Context) (limit, offset int, ok bool) {
	limit = 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "limit must be an integer")
			return 0, 0, false
		}
		limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			sendError(c, http.StatusBadRequest, "offset must be an integer")
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}

// parseDateParam reads an optional YYYY-MM-DD query parameter. A malformed
// value fails the request with 400.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		sendError(c, http.StatusBadRequest, name+" must be formatted as YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}

func logDashboardError(c *gin.Context, operation string, err error) {
	if db.IsNotFound(err) {
		return
	}
	logger.Log.Error("Dashboard request failed",
		zap.String("operation", operation),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
}
