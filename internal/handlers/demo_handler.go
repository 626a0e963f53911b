package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zdy718/ClearDollar/internal/services"
)

// DemoHandler seeds example data.
type DemoHandler struct {
	demoService  services.DemoServicer
	sessions     sessionInvalidator
	auditService services.AuditServicer
}

// NewDemoHandler creates a new DemoHandler.
func NewDemoHandler(demoService services.DemoServicer, sessions sessionInvalidator, auditService services.AuditServicer) *DemoHandler {
	return &DemoHandler{demoService: demoService, sessions: sessions, auditService: auditService}
}

// Seed handles creating the demo hierarchy
// @Summary     Seed demo data
// @Description Create the demo expense hierarchy and sample spending for a user with no categories
// @Tags        demo
// @Produce     json
// @Param       userId query string false "User scope (or X-User-ID header)"
// @Success     201 {object} services.DemoSeedResult "Seeded"
// @Failure     409 {object} ErrorResponse "User already has categories"
// @Router      /demo/seed [post]
func (h *DemoHandler) Seed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.demoService.Seed(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.sessions.Invalidate(userID)
	h.auditService.Log(userID, services.AuditSeedDemo, services.ResourceCategory, 0, c.ClientIP(),
		map[string]interface{}{"categories": result.Categories, "transactions": result.Transactions})

	c.JSON(http.StatusCreated, result)
}
