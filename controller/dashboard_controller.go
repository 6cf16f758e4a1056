package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"carrier-engagement/model"
	"carrier-engagement/usecase"
)

type DashboardController struct {
	usecase *usecase.DashboardUsecase
}

func NewDashboardController(usecase *usecase.DashboardUsecase) *DashboardController {
	return &DashboardController{usecase: usecase}
}

type chart struct {
	ChartType string `json:"chart_type"`
	Title     string `json:"title"`
	Data      any    `json:"data"`
}

type dashboardView struct {
	Summary  *model.AnalyticsSummaryReport `json:"summary"`
	Metadata struct {
		LastUpdated      *string `json:"last_updated"`
		DataFreshness    string  `json:"data_freshness"`
		DashboardVersion string  `json:"dashboard_version"`
	} `json:"dashboard_metadata"`
	Visualizations map[string]chart `json:"visualizations"`
}

func (c *DashboardController) Analytics(ctx *gin.Context) {
	s, err := c.usecase.Summary(ctx.Request.Context())
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "error fetching dashboard analytics", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analytics data"})
		return
	}

	view := dashboardView{Summary: s}
	view.Metadata.LastUpdated = s.LastUpdated
	view.Metadata.DataFreshness = "real-time"
	view.Metadata.DashboardVersion = "1.0"
	view.Visualizations = map[string]chart{
		"call_outcomes": {
			ChartType: "pie",
			Title:     "Call Outcomes Distribution",
			Data: gin.H{
				"successful":   s.SuccessfulCalls,
				"total":        s.TotalCalls,
				"success_rate": s.SuccessRate,
			},
		},
		"sentiment_breakdown": {ChartType: "bar", Title: "Carrier Sentiment Analysis", Data: s.SentimentBreakdown},
		"negotiation_metrics": {ChartType: "metrics", Title: "Negotiation Performance", Data: s.NegotiationMetrics},
	}
	ctx.JSON(http.StatusOK, view)
}

func (c *DashboardController) Status(ctx *gin.Context) {
	st, err := c.usecase.Status(ctx.Request.Context())
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "error getting dashboard status", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Dashboard status unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, st)
}
