package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/health"
)

// HealthHandler serves liveness and readiness checks.
type HealthHandler struct {
	svc     health.ReadinessUseCase
	backend string
	started time.Time
}

func NewHealthHandler(svc health.ReadinessUseCase, backend string) *HealthHandler {
	return &HealthHandler{svc: svc, backend: backend, started: time.Now()}
}

type healthStatus struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Uptime  string `json:"uptime"`
}

// Health: basic liveness check.
// @Summary Liveness check
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.Response{data=healthStatus}
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.Success(c, fiber.StatusOK, healthStatus{
		Status:  "ok",
		Backend: h.backend,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready: readiness check over the record store and session storage.
// @Summary Readiness check
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.Response
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		return presenter.JSON(c, fiber.StatusServiceUnavailable, presenter.ErrorResponse{
			Status:  presenter.StatusError,
			Message: "not_ready",
			Error:   err.Error(),
		})
	}
	return presenter.Message(c, fiber.StatusOK, "ready", nil)
}
