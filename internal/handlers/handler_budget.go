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

// budgetHandler handles HTTP requests for the user's monthly budget.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

// newBudgetHandler creates a new budgetHandler.
func newBudgetHandler(bs portssvc.BudgetSvcFacade) *budgetHandler {
	return &budgetHandler{
		budgetService: bs,
	}
}

// registerBudgetRoutes registers routes related to the monthly budget. Each
// user has at most one budget, so the resource is singular.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := newBudgetHandler(budgetService)

	budget := rg.Group("/budget")
	{
		budget.PUT("", h.setBudget)
		budget.GET("", h.getBudget)
		budget.DELETE("", h.clearBudget)
		budget.GET("/report", h.getBudgetReport)
	}
}

// setBudget godoc
// @Summary Set the monthly budget
// @Description Creates or replaces the user's single monthly budget.
// @Tags budget
// @Accept json
// @Produce json
// @Param budget body dto.SetBudgetRequest true "Budget amount and currency"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /budget [put]
func (h *budgetHandler) setBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	budget, err := h.budgetService.SetBudget(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to set budget", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to set budget"})
		return
	}

	logger.Info("Budget set", slog.String("budget_id", budget.BudgetID), slog.String("user_id", userID))
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// getBudget godoc
// @Summary Get the monthly budget
// @Description Returns the user's budget without spending figures.
// @Tags budget
// @Produce json
// @Success 200 {object} dto.BudgetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No budget set"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /budget [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No budget set"})
			return
		}
		logger.Error("Failed to load budget", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load budget"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// getBudgetReport godoc
// @Summary Get the budget report
// @Description Returns the budget alongside this month's subscription spend
// @Description converted into the budget currency, with an UNDER, NEAR or
// @Description OVER status.
// @Tags budget
// @Produce json
// @Success 200 {object} dto.BudgetReportResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No budget set"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /budget/report [get]
func (h *budgetHandler) getBudgetReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.budgetService.GetBudgetReport(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No budget set"})
			return
		}
		logger.Error("Failed to build budget report", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build budget report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetReportResponse(report))
}

// clearBudget godoc
// @Summary Clear the monthly budget
// @Description Removes the budget. Clearing when none is set is a no-op.
// @Tags budget
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /budget [delete]
func (h *budgetHandler) clearBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.budgetService.ClearBudget(c.Request.Context(), userID); err != nil {
		logger.Error("Failed to clear budget", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to clear budget"})
		return
	}

	c.Status(http.StatusNoContent)
}
