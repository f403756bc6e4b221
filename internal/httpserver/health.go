package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja_grid/internal/logging"
)

// Health is the only endpoint that shows an underlying error message.
func (h *Handler) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Catalog.Health(ctx); err != nil {
		logging.FromContext(ctx).Error("health_check_failed", "status", http.StatusInternalServerError, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "ts": time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")})
}
