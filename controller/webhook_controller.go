package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"carrier-engagement/model"
	"carrier-engagement/usecase"
)

type WebhookController struct {
	usecase *usecase.EventUsecase
}

func NewWebhookController(usecase *usecase.EventUsecase) *WebhookController {
	return &WebhookController{usecase: usecase}
}

// HandleCarrierEngagement accepts one event from the voice platform.
func (c *WebhookController) HandleCarrierEngagement(ctx *gin.Context) {
	var payload model.WebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ev, err := model.DecodeEvent(&payload)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.usecase.Process(ctx.Request.Context(), ev)
	if err != nil {
		slog.ErrorContext(ctx.Request.Context(), "error processing webhook event", "event_type", payload.EventType, "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *WebhookController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "webhook"})
}
