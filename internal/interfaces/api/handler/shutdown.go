package handler

import (
	"net/http"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/application/service"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/pkg/logger"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ShutdownHandler serves the local HTTP API.
type ShutdownHandler struct {
	shutdownService   service.ShutdownService
	preferenceService service.PreferenceService
	log               logger.Logger
}

// NewShutdownHandler creates a new ShutdownHandler.
func NewShutdownHandler(
	shutdownService service.ShutdownService,
	preferenceService service.PreferenceService,
	log logger.Logger,
) *ShutdownHandler {
	return &ShutdownHandler{
		shutdownService:   shutdownService,
		preferenceService: preferenceService,
		log:               log,
	}
}

// GetStatus handles GET /api/status.
func (h *ShutdownHandler) GetStatus(c echo.Context) error {
	status, err := h.shutdownService.Status(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

// Resolve handles GET /api/resolve?time=HH:MM.
func (h *ShutdownHandler) Resolve(c echo.Context) error {
	resp, err := h.shutdownService.Preview(c.Request().Context(), c.QueryParam("time"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Schedule handles POST /api/schedule.
func (h *ShutdownHandler) Schedule(c echo.Context) error {
	var req dto.ScheduleShutdownRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	req.Source = constant.SourceAPI

	resp, err := h.shutdownService.Schedule(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Cancel handles DELETE /api/schedule.
func (h *ShutdownHandler) Cancel(c echo.Context) error {
	if err := h.shutdownService.Cancel(c.Request().Context(), constant.SourceAPI); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// History handles GET /api/schedule/history?limit=N.
func (h *ShutdownHandler) History(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be an integer"})
		}
		limit = n
	}
	history, err := h.shutdownService.History(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// ShutdownNow handles POST /api/shutdown.
func (h *ShutdownHandler) ShutdownNow(c echo.Context) error {
	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	req.Source = constant.SourceAPI

	if err := h.shutdownService.ShutdownNow(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// Crash handles POST /api/crash.
func (h *ShutdownHandler) Crash(c echo.Context) error {
	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	req.Source = constant.SourceAPI

	if err := h.shutdownService.Crash(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

// GetPreference handles GET /api/preference.
func (h *ShutdownHandler) GetPreference(c echo.Context) error {
	pref, err := h.preferenceService.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pref)
}

// UpdatePreference handles PUT /api/preference.
func (h *ShutdownHandler) UpdatePreference(c echo.Context) error {
	var req dto.UpdatePreferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	pref, err := h.preferenceService.Update(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, pref)
}
