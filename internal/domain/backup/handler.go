package backup

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cliniva/cliniva/internal/platform/auth"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the danger-zone endpoints. They live under /auth
// next to the credential re-check that gates them in the frontend.
func (h *Handler) RegisterRoutes(authed *echo.Group) {
	authed.GET("/auth/export-data", h.Export)
	authed.POST("/auth/import-data", h.Import)
	authed.GET("/auth/data-counts", h.DataCounts)
}

func (h *Handler) Export(c echo.Context) error {
	export, err := h.engine.Export(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export data")
	}

	filename := fmt.Sprintf("clinic-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.JSON(http.StatusOK, export)
}

func (h *Handler) Import(c echo.Context) error {
	var payload ImportPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid JSON payload",
		})
	}

	result, err := h.engine.Import(c.Request().Context(), &payload)

	var validationErr *ValidationError
	var importErr *ImportError
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": err.Error(),
		})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": "Validation failed: imported data is malformed",
			"field":   validationErr.Field,
			"reason":  validationErr.Reason,
		})
	case errors.As(err, &importErr):
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"message":  importErr.Error(),
			"rollback": importErr.RolledBack,
			"critical": importErr.Critical,
		})
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Data imported successfully",
		"imported": result.Imported,
		"verified": result.Verified,
		"warning":  result.Warning,
	})
}

func (h *Handler) DataCounts(c echo.Context) error {
	counts, err := h.engine.DataCounts(c.Request().Context(), auth.DoctorID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, counts)
}
