package handler

import (
	"net/http"

	"ledgerai/internal/apierror"
	"ledgerai/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.InsightService }

func NewDashboardHandler(svc service.InsightService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Insights serves the cached dashboard aggregates, computing on a cache miss.
func (h *DashboardHandler) Insights(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Could not build dashboard insights"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
