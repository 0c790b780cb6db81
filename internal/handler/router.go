package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the gin engine with all API routes.
func NewRouter(analyze *AnalyzeHandler, dashboard *DashboardHandler, health *HealthHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", health.LivenessProbe)
	router.GET("/health/ready", health.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", analyze.SubmitJob)
		v1.GET("/analyze/jobs/:id", analyze.GetJob)

		dash := v1.Group("/dashboard")
		{
			dash.GET("/metrics", dashboard.GetMetrics)
			dash.GET("/trends", dashboard.GetTrends)
			dash.GET("/top-videos", dashboard.GetTopVideos)
			dash.GET("/sentiment-summary", dashboard.GetSentimentSummary)
		}

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/view-growth", dashboard.GetViewGrowth)
			analytics.GET("/interactions", dashboard.GetInteractions)
			analytics.GET("/optimal-posting-time", dashboard.GetOptimalPostingTime)
		}

		comments := v1.Group("/comments")
		{
			comments.GET("/sentiment", dashboard.GetCommentsBySentiment)
			comments.GET("/emotion", dashboard.GetCommentsByEmotion)
			comments.GET("/emotion-chart", dashboard.GetEmotionChart)
		}
	}

	return router
}
