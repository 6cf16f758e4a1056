package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carrier-engagement/model"
	"carrier-engagement/usecase"
)

type LoadController struct {
	usecase *usecase.LoadUsecase
}

func NewLoadController(usecase *usecase.LoadUsecase) *LoadController {
	return &LoadController{usecase: usecase}
}

func (c *LoadController) ForVoiceAgent(ctx *gin.Context) {
	limit := usecase.DefaultVoiceLimit
	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	criteria := model.LoadCriteria{
		Origin:        ctx.Query("origin"),
		Destination:   ctx.Query("destination"),
		EquipmentType: ctx.Query("equipment_type"),
	}

	list, err := c.usecase.ForVoiceAgent(ctx.Request.Context(), criteria, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, list)
}

func (c *LoadController) DetailForVoiceAgent(ctx *gin.Context) {
	detail, err := c.usecase.DetailForVoiceAgent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
