package rest

import (
	"context"
	"net/http"
	"time"

	"bazaarHub/domain"

	"github.com/labstack/echo/v4"
)

type StatsService interface {
	AdminStats(ctx context.Context) (domain.AdminStats, error)
}

type StatsHandler struct {
	statsService StatsService
	timeout      time.Duration
}

func NewStatsHandler(statsService StatsService, timeout time.Duration) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		timeout:      timeout,
	}
}

// GetStats serves the admin dashboard counters.
func (h *StatsHandler) GetStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	stats, err := h.statsService.AdminStats(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}
