package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/gin-gonic/gin"
)

// alertHandler handles HTTP requests for rate alerts.
type alertHandler struct {
	alertService portssvc.AlertSvcFacade
}

// newAlertHandler creates a new alertHandler.
func newAlertHandler(as portssvc.AlertSvcFacade) *alertHandler {
	return &alertHandler{
		alertService: as,
	}
}

// registerAlertRoutes registers routes related to rate alerts.
func registerAlertRoutes(rg *gin.RouterGroup, alertService portssvc.AlertSvcFacade) {
	h := newAlertHandler(alertService)

	alerts := rg.Group("/alerts")
	{
		alerts.POST("", h.createAlert)
		alerts.GET("", h.listAlerts)
		alerts.DELETE("/:alertID", h.deleteAlert)
	}
}

// createAlert godoc
// @Summary Create a rate alert
// @Description Creates an alert that fires once when the pair's rate crosses
// @Description the target in the given direction, then deactivates.
// @Tags alerts
// @Accept json
// @Produce json
// @Param alert body dto.CreateAlertRequest true "Alert details"
// @Success 201 {object} dto.AlertResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts [post]
func (h *alertHandler) createAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	alert, err := h.alertService.CreateAlert(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create alert", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create alert"})
		return
	}

	logger.Info("Alert created", slog.String("alert_id", alert.AlertID), slog.String("user_id", userID))
	c.JSON(http.StatusCreated, dto.ToAlertResponse(alert))
}

// listAlerts godoc
// @Summary List rate alerts
// @Description Lists the user's alerts, including ones that already fired.
// @Tags alerts
// @Produce json
// @Success 200 {object} dto.ListAlertsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts [get]
func (h *alertHandler) listAlerts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	alerts, err := h.alertService.ListAlerts(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list alerts", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list alerts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAlertsResponse(alerts))
}

// deleteAlert godoc
// @Summary Delete a rate alert
// @Tags alerts
// @Param alertID path string true "Alert ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Alert not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /alerts/{alertID} [delete]
func (h *alertHandler) deleteAlert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	alertID := c.Param("alertID")
	if err := h.alertService.DeleteAlert(c.Request.Context(), userID, alertID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Alert not found"})
			return
		}
		logger.Error("Failed to delete alert", slog.String("error", err.Error()), slog.String("alert_id", alertID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete alert"})
		return
	}

	c.Status(http.StatusNoContent)
}
