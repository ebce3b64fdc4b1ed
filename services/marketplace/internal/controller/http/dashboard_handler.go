package http

import (
	"net/http"

	"estate-market/pkg/logger"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard usecase.DashboardUseCase
	logger    *logger.Logger
}

func NewDashboardHandler(dashboard usecase.DashboardUseCase, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// Counters godoc
// @Summary      Back-office counters
// @Tags         dashboard
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /dashboard/counters [get]
func (h *DashboardHandler) Counters(c *gin.Context) {
	counters, err := h.dashboard.Counters(c.Request.Context())
	if err != nil {
		response.ServerError(c, h.logger, "[DASHBOARD] counters", err)
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"counters": counters})
}
