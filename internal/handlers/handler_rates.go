package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	portssvc "github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/dto"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateHandler exposes exchange rate lookups and conversions.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
	defaultBase string
}

// newRateHandler creates a new rateHandler.
func newRateHandler(rateService portssvc.RateSvcFacade, defaultBase string) *rateHandler {
	return &rateHandler{
		rateService: rateService,
		defaultBase: defaultBase,
	}
}

// registerRateRoutes sets up the routes for rate lookups and conversions.
func registerRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, defaultBase string) {
	h := newRateHandler(rateService, defaultBase)

	rates := rg.Group("/rates")
	{
		rates.GET("/latest", h.getLatestRates)
		rates.GET("/pair", h.getPairRate)
		rates.GET("/historical", h.getHistoricalRates)
		rates.GET("/timeseries", h.getTimeSeries)
		rates.POST("/convert", h.convertAmount)
		rates.POST("/convert/batch", h.batchConvert)
		rates.POST("/refresh", h.refreshRates)
	}
}

// respondRateError maps rate service failures onto HTTP statuses. Provider
// outages are the upstream's fault, not ours, hence 502.
func respondRateError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrRateNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No rate available for this pair"})
	case errors.Is(err, apperrors.ErrRateFetch):
		logger.Warn("Rate provider unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Rate provider unavailable"})
	default:
		logger.Error("Rate operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process rate request"})
	}
}

// splitSymbols turns a comma-separated currency list into a slice, dropping
// empty entries. A nil result means no filtering.
func splitSymbols(raw string) []string {
	if raw == "" {
		return nil
	}
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

// getLatestRates godoc
// @Summary Get latest exchange rates
// @Description Returns the current rate table for a base currency, served from
// @Description cache when fresh. Symbols narrows the table to specific targets.
// @Tags rates
// @Produce json
// @Param base query string false "Base currency code (defaults to the configured base)"
// @Param symbols query string false "Comma-separated target currency codes"
// @Success 200 {object} dto.LatestRatesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Rate provider unavailable"
// @Security BearerAuth
// @Router /rates/latest [get]
func (h *rateHandler) getLatestRates(c *gin.Context) {
	var params dto.LatestRatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	base := params.Base
	if base == "" {
		base = h.defaultBase
	}

	snap, err := h.rateService.GetLatestRates(c.Request.Context(), base, splitSymbols(params.Symbols))
	if err != nil {
		respondRateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLatestRatesResponse(snap))
}

// getPairRate godoc
// @Summary Get the rate for one currency pair
// @Tags rates
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Success 200 {object} dto.PairRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No rate available for this pair"
// @Security BearerAuth
// @Router /rates/pair [get]
func (h *rateHandler) getPairRate(c *gin.Context) {
	var params dto.PairRateParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	rate := h.rateService.GetRate(c.Request.Context(), params.From, params.To)
	if rate == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No rate available for this pair"})
		return
	}

	c.JSON(http.StatusOK, dto.PairRateResponse{
		From: strings.ToUpper(params.From),
		To:   strings.ToUpper(params.To),
		Rate: *rate,
	})
}

// getHistoricalRates godoc
// @Summary Get daily historical rates for a pair
// @Description Returns the pair's daily closing rates over an inclusive date
// @Description range, oldest first. Days the provider cannot serve are omitted.
// @Tags rates
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.HistoricalRatesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates/historical [get]
func (h *rateHandler) getHistoricalRates(c *gin.Context) {
	var params dto.RateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	points, err := h.rateService.GetHistoricalRates(c.Request.Context(), params.From, params.To, params.Start, params.End)
	if err != nil {
		respondRateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToHistoricalRatesResponse(strings.ToUpper(params.From), strings.ToUpper(params.To), points))
}

// getTimeSeries godoc
// @Summary Get a cached rate time series for a pair
// @Description Like the historical endpoint but the whole range is cached as
// @Description one unit, suited to charting.
// @Tags rates
// @Produce json
// @Param from query string true "Source currency code"
// @Param to query string true "Target currency code"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.TimeSeriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates/timeseries [get]
func (h *rateHandler) getTimeSeries(c *gin.Context) {
	var params dto.RateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	series, err := h.rateService.GetTimeSeries(c.Request.Context(), params.From, params.To, params.Start, params.End)
	if err != nil {
		respondRateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTimeSeriesResponse(series))
}

// convertAmount godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount and rounds to the target currency's decimal
// @Description places. When no rate is available the amount passes through
// @Description unconverted rather than failing.
// @Tags rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion to perform"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates/convert [post]
func (h *rateHandler) convertAmount(c *gin.Context) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	converted := h.rateService.ConvertAmount(c.Request.Context(), req.Amount, req.From, req.To, nil)

	c.JSON(http.StatusOK, dto.ConvertResponse{
		From:      strings.ToUpper(req.From),
		To:        strings.ToUpper(req.To),
		Amount:    req.Amount,
		Converted: converted,
	})
}

// batchConvert godoc
// @Summary Convert several amounts of one currency
// @Description Converts a batch of amounts from one source currency, resolving
// @Description the rate once. Results keep the order of the request amounts.
// @Tags rates
// @Accept json
// @Produce json
// @Param conversion body dto.BatchConvertRequest true "Batch conversion to perform"
// @Success 200 {object} dto.BatchConvertResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /rates/convert/batch [post]
func (h *rateHandler) batchConvert(c *gin.Context) {
	var req dto.BatchConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	results := h.rateService.BatchConvert(c.Request.Context(), req.Amounts, req.From, req.To)

	c.JSON(http.StatusOK, dto.BatchConvertResponse{
		From:    strings.ToUpper(req.From),
		To:      strings.ToUpper(req.To),
		Amounts: req.Amounts,
		Results: results,
	})
}

// refreshRates godoc
// @Summary Force-refresh cached rates
// @Description Drops the cached snapshot for a base currency and fetches a
// @Description fresh one from the provider.
// @Tags rates
// @Produce json
// @Param base query string false "Base currency code (defaults to the configured base)"
// @Success 200 {object} dto.LatestRatesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Rate provider unavailable"
// @Security BearerAuth
// @Router /rates/refresh [post]
func (h *rateHandler) refreshRates(c *gin.Context) {
	base := c.Query("base")
	if base == "" {
		base = h.defaultBase
	}

	snap, err := h.rateService.RefreshRates(c.Request.Context(), base)
	if err != nil {
		respondRateError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLatestRatesResponse(snap))
}
