package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils/recurrence"
	"github.com/gin-gonic/gin"
)

// subscriptionHandler handles HTTP requests for subscriptions and the
// spending summary derived from them.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
	reportingService    portssvc.ReportingSvcFacade
}

// newSubscriptionHandler creates a new subscriptionHandler.
func newSubscriptionHandler(ss portssvc.SubscriptionSvcFacade, rs portssvc.ReportingSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{
		subscriptionService: ss,
		reportingService:    rs,
	}
}

// registerSubscriptionRoutes registers routes related to subscriptions.
func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade, reportingService portssvc.ReportingSvcFacade) {
	h := newSubscriptionHandler(subscriptionService, reportingService)

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("", h.createSubscription)
		subscriptions.GET("", h.listSubscriptions)
		subscriptions.GET("/upcoming", h.listUpcomingRenewals)
		subscriptions.GET("/summary", h.getSpendingSummary)
		subscriptions.GET("/:subscriptionID", h.getSubscriptionByID)
		subscriptions.PUT("/:subscriptionID", h.updateSubscription)
		subscriptions.DELETE("/:subscriptionID", h.deleteSubscription)
	}
}

// createSubscription godoc
// @Summary Create a subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription details"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *subscriptionHandler) createSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create subscription", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create subscription"})
		return
	}

	logger.Info("Subscription created", slog.String("subscription_id", sub.SubscriptionID), slog.String("user_id", userID))
	c.JSON(http.StatusCreated, dto.ToSubscriptionResponse(sub))
}

// listSubscriptions godoc
// @Summary List subscriptions
// @Description Lists the user's subscriptions newest first, paginated with an
// @Description opaque cursor token.
// @Tags subscriptions
// @Produce json
// @Param limit query int false "Page size (1-100, default 20)"
// @Param nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListSubscriptionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *subscriptionHandler) listSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListSubscriptionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to list subscriptions", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list subscriptions"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// listUpcomingRenewals godoc
// @Summary List upcoming renewals
// @Description Lists active subscriptions that bill within the lookahead
// @Description window, soonest first, with the days remaining for each.
// @Tags subscriptions
// @Produce json
// @Param withinDays query int false "Lookahead window in days (1-90, default 7)"
// @Success 200 {object} dto.UpcomingRenewalsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/upcoming [get]
func (h *subscriptionHandler) listUpcomingRenewals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.UpcomingRenewalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	subs, err := h.subscriptionService.ListUpcomingRenewals(c.Request.Context(), userID, params.WithinDays)
	if err != nil {
		logger.Error("Failed to list upcoming renewals", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list upcoming renewals"})
		return
	}

	now := time.Now().UTC()
	renewals := make([]dto.RenewalResponse, len(subs))
	for i, sub := range subs {
		renewals[i] = dto.RenewalResponse{
			Subscription:     dto.ToSubscriptionResponse(&sub),
			DaysUntilRenewal: recurrence.DaysUntil(sub.NextBillingDate, now),
		}
	}

	c.JSON(http.StatusOK, dto.UpcomingRenewalsResponse{Renewals: renewals})
}

// getSpendingSummary godoc
// @Summary Get the spending summary
// @Description Aggregates active subscriptions into monthly and yearly totals
// @Description in one currency, with per-subscription and per-category
// @Description breakdowns. Defaults to the user's preferred currency.
// @Tags subscriptions
// @Produce json
// @Param currency query string false "Target currency code"
// @Success 200 {object} dto.SpendingSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/summary [get]
func (h *subscriptionHandler) getSpendingSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.reportingService.GetSpendingSummary(c.Request.Context(), userID, params.Currency)
	if err != nil {
		logger.Error("Failed to build spending summary", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build spending summary"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSpendingSummaryResponse(summary))
}

// getSubscriptionByID godoc
// @Summary Get a subscription
// @Tags subscriptions
// @Produce json
// @Param subscriptionID path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Subscription not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/{subscriptionID} [get]
func (h *subscriptionHandler) getSubscriptionByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	subscriptionID := c.Param("subscriptionID")
	sub, err := h.subscriptionService.GetSubscriptionByID(c.Request.Context(), userID, subscriptionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Subscription not found"})
			return
		}
		logger.Error("Failed to get subscription", slog.String("error", err.Error()), slog.String("subscription_id", subscriptionID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve subscription"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// updateSubscription godoc
// @Summary Update a subscription
// @Description Applies the provided fields; omitted fields keep their stored
// @Description values.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscriptionID path string true "Subscription ID"
// @Param subscription body dto.UpdateSubscriptionRequest true "Fields to update"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Subscription not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/{subscriptionID} [put]
func (h *subscriptionHandler) updateSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	subscriptionID := c.Param("subscriptionID")
	sub, err := h.subscriptionService.UpdateSubscription(c.Request.Context(), userID, subscriptionID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Subscription not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update subscription", slog.String("error", err.Error()), slog.String("subscription_id", subscriptionID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update subscription"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(sub))
}

// deleteSubscription godoc
// @Summary Delete a subscription
// @Description Soft-deletes the subscription. It stops counting toward
// @Description summaries and renewals but remains recoverable in storage.
// @Tags subscriptions
// @Param subscriptionID path string true "Subscription ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Subscription not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/{subscriptionID} [delete]
func (h *subscriptionHandler) deleteSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	subscriptionID := c.Param("subscriptionID")
	if err := h.subscriptionService.DeleteSubscription(c.Request.Context(), userID, subscriptionID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Subscription not found"})
			return
		}
		logger.Error("Failed to delete subscription", slog.String("error", err.Error()), slog.String("subscription_id", subscriptionID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete subscription"})
		return
	}

	c.Status(http.StatusNoContent)
}
