package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Webhook     *WebhookController
	Load        *LoadController
	Carrier     *CarrierController
	Dashboard   *DashboardController
	Negotiation *NegotiationController
}

type RouterConfig struct {
	APIKey      string
	CORSOrigins []string
	RateLimiter *RateLimiter
}

func NewRouter(cfg RouterConfig, c Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS(cfg.CORSOrigins))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware())
	}

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"message":   "Inbound Carrier Engagement API",
			"status":    "running",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339Nano)})
	})
	r.GET("/webhook/health", c.Webhook.Health)

	auth := r.Group("/", APIKeyAuth(cfg.APIKey))
	auth.POST("/webhook/carrier-engagement", c.Webhook.HandleCarrierEngagement)
	auth.GET("/loads/for-voice-agent", c.Load.ForVoiceAgent)
	auth.GET("/loads/:id/for-voice-agent", c.Load.DetailForVoiceAgent)
	auth.GET("/verify-carrier/:mc_number", c.Carrier.Verify)
	auth.GET("/dashboard/analytics", c.Dashboard.Analytics)
	auth.GET("/dashboard/status", c.Dashboard.Status)
	auth.GET("/negotiations/:load_id/:carrier_mc", c.Negotiation.Get)

	return r
}
