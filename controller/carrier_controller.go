package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carrier-engagement/usecase"
)

type CarrierController struct {
	usecase *usecase.CarrierUsecase
}

func NewCarrierController(usecase *usecase.CarrierUsecase) *CarrierController {
	return &CarrierController{usecase: usecase}
}

// VoiceVerification is the verification result phrased for a voice agent.
type VoiceVerification struct {
	Eligible     bool   `json:"eligible"`
	MCNumber     string `json:"mc_number"`
	CompanyName  string `json:"company_name,omitempty"`
	Status       string `json:"status,omitempty"`
	Error        string `json:"error,omitempty"`
	VoiceMessage string `json:"voice_message"`
	NextAction   string `json:"next_action"`
}

func (c *CarrierController) Verify(ctx *gin.Context) {
	mc := ctx.Param("mc_number")
	v := c.usecase.Verify(ctx.Request.Context(), mc)

	if !v.IsEligible {
		reason := v.Error
		if reason == "" {
			reason = "Verification failed"
		}
		ctx.JSON(http.StatusOK, VoiceVerification{
			Eligible:     false,
			MCNumber:     mc,
			Error:        reason,
			VoiceMessage: "Sorry, carrier MC-" + mc + " is not eligible. " + v.Error,
			NextAction:   "end_call",
		})
		return
	}

	name := v.CompanyName
	if name == "" {
		name = "Unknown Company"
	}
	status := v.Status
	if status == "" {
		status = "ACTIVE"
	}
	ctx.JSON(http.StatusOK, VoiceVerification{
		Eligible:     true,
		MCNumber:     v.MCNumber,
		CompanyName:  name,
		Status:       status,
		VoiceMessage: "Carrier " + v.MCNumber + " - " + name + " is verified and eligible for loads.",
		NextAction:   "search_loads",
	})
}
