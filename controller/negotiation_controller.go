package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carrier-engagement/model"
	"carrier-engagement/usecase"
)

type NegotiationController struct {
	usecase *usecase.NegotiationUsecase
}

func NewNegotiationController(usecase *usecase.NegotiationUsecase) *NegotiationController {
	return &NegotiationController{usecase: usecase}
}

type negotiationView struct {
	Live    *model.NegotiationState   `json:"live"`
	Records []model.NegotiationRecord `json:"records"`
}

// Get returns the live ledger entry and the stored records for one
// load/carrier pair.
func (c *NegotiationController) Get(ctx *gin.Context) {
	key := model.NegotiationKey{LoadID: ctx.Param("load_id"), CarrierMC: ctx.Param("carrier_mc")}

	records, err := c.usecase.History(ctx.Request.Context(), key)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	view := negotiationView{Records: records}
	if st, ok := c.usecase.State(key); ok {
		view.Live = &st
	}
	if view.Live == nil && len(records) == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Negotiation not found"})
		return
	}
	ctx.JSON(http.StatusOK, view)
}
