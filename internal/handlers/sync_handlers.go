package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradesync/internal/caching"
	"tradesync/internal/jobs"
)

// SyncHandlers triggers catalog passes and reports their status.
type SyncHandlers struct {
	enqueuer *jobs.Enqueuer
	cache    caching.CacheService
}

func NewSyncHandlers(enqueuer *jobs.Enqueuer, cache caching.CacheService) *SyncHandlers {
	return &SyncHandlers{
		enqueuer: enqueuer,
		cache:    cache,
	}
}

// TriggerSync enqueues a catalog pass. Duplicate triggers while a pass is
// queued or running collapse into one.
func (h *SyncHandlers) TriggerSync(c echo.Context) error {
	if err := h.enqueuer.EnqueueCatalogSync(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to enqueue sync")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}

// SyncStatus returns the result of the most recent pass.
func (h *SyncHandlers) SyncStatus(c echo.Context) error {
	result, err := h.cache.GetSyncStatus(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read sync status")
	}
	if result == nil {
		return c.JSON(http.StatusOK, map[string]string{"status": "never_run"})
	}
	return c.JSON(http.StatusOK, result)
}
