package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tably/internal/domain/billing"
	"tably/internal/shared/utils"
)

// PlanDTO is the outward shape of a purchasable plan. The gateway plan code
// stays internal.
type PlanDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PeriodDays int    `json:"period_days"`
}

// PlanHandler exposes the configured plan allow-list.
type PlanHandler struct {
	catalog *billing.PlanCatalog
}

func NewPlanHandler(catalog *billing.PlanCatalog) *PlanHandler {
	return &PlanHandler{catalog: catalog}
}

// ListPlans godoc
// @Summary List purchasable subscription plans
// @Tags plans
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]PlanDTO}
// @Router /api/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans := h.catalog.List()

	out := make([]PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanDTO{
			ID:         p.ID,
			Name:       p.Name,
			PeriodDays: p.PeriodDays,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", out)
}
