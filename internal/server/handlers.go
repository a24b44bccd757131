package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/engine"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/storage"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
)

// Scanner runs one evaluation pass over every configured pair.
// Satisfied by engine.Engine.
type Scanner interface {
	ScanOnce(ctx context.Context) ([]*engine.Opportunity, error)
}

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Registry *venue.Registry      // Static venue configuration
	Source   engine.ReserveSource // Live reserve reader for quotes
	Scanner  Scanner              // On-demand opportunity scan (optional)
	Cache    storage.ArbCache     // Redis-backed event cache (optional)
	DevMode  bool                 // Enable detailed error responses in development
	Logger   *logrus.Logger       // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Venues lists every configured pool
func (h *Handlers) Venues(c echo.Context) error {
	items := make([]VenueResponse, 0, h.Registry.Count())
	for _, v := range h.Registry.All() {
		items = append(items, VenueResponse{
			Name:           v.Name,
			Dex:            v.Dex,
			Pair:           v.Pair,
			FeeNumerator:   v.Market.FeeNumerator,
			FeeDenominator: v.Market.FeeDenominator,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Quote prices both directions of one venue against live reserves.
// Accepts venue (required), amount (base units, 0 picks the tolerance-scaled
// default size) and slippage_bps query parameters.
func (h *Handlers) Quote(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("venue"))
	if name == "" {
		return h.err(c, http.StatusBadRequest, "invalid venue", map[string]any{"venue": "required"})
	}

	v, err := h.Registry.FindByName(name)
	if err != nil {
		return h.err(c, http.StatusNotFound, "venue not found", nil)
	}

	var amount uint64
	if s := strings.TrimSpace(c.QueryParam("amount")); s != "" {
		amount, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be uint64"})
		}
	}

	slippageBps := uint64(50)
	if s := strings.TrimSpace(c.QueryParam("slippage_bps")); s != "" {
		slippageBps, err = strconv.ParseUint(s, 10, 64)
		if err != nil || slippageBps >= 10000 {
			return h.err(c, http.StatusBadRequest, "invalid slippage_bps", map[string]any{"slippage_bps": "must be below 10000"})
		}
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	quoter := &amm.CurveQuoter{Market: v.Market, Fetcher: h.Source.ForVenue(v)}
	buy, sell, err := quoter.QuoteBothSides(ctx, amount, slippageBps)
	if err != nil {
		return h.err(c, http.StatusBadGateway, "quote failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, QuoteResponse{
		Venue: v.Name,
		Pair:  v.Pair,
		Buy:   legResponse(buy),
		Sell:  legResponse(sell),
	})
}

func legResponse(q *amm.SwapQuote) *LegQuoteResponse {
	return &LegQuoteResponse{
		Side:              string(q.Side),
		InputAmount:       q.InputTradeAmount,
		MinimumOut:        q.ExpectedOutputAmount,
		NoSlippageOut:     q.NoSlippageOutputAmount,
		Rate:              q.Rate.String(),
		Price:             q.Price.String(),
		PriceImpact:       q.PriceImpact.String(),
		InPoolAmount:      q.InPoolAmount,
		OutPoolAmount:     q.OutPoolAmount,
		SlippageTolerance: q.SlippageToleranceBps,
	}
}

// Opportunities runs one scan and returns the sized candidates without
// executing anything
func (h *Handlers) Opportunities(c echo.Context) error {
	if h.Scanner == nil {
		return h.err(c, http.StatusBadRequest, "scanner is not configured", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	opps, err := h.Scanner.ScanOnce(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "scan failed", map[string]any{"err": err.Error()})
	}

	items := make([]OpportunityResponse, 0, len(opps))
	for _, opp := range opps {
		items = append(items, OpportunityResponse{
			Pair:               opp.Pair,
			BuyVenue:           opp.BuyVenue.Name,
			SellVenue:          opp.SellVenue.Name,
			IsSellBinding:      opp.Candidate.IsSellBinding,
			InputAmount:        opp.Candidate.InputAmount,
			IntermediateAmount: opp.Candidate.IntermediateAmount,
			FinalOutputAmount:  opp.Candidate.FinalOutputAmount,
			Ratio:              opp.Candidate.Ratio.String(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// RecentTrades returns the most recent arb events with optional limit parameter
// Accepts limit query parameter (default: 100, range: 1-100)
func (h *Handlers) RecentTrades(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "cache is not configured", nil)
	}

	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > 100 {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 100"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cache.GetRecentArbs(ctx, int64(limit))
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get trades", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// TradingStatus reports the kill switch state
func (h *Handlers) TradingStatus(c echo.Context) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "cache is not configured", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	enabled, err := h.Cache.TradingEnabled(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to read trading switch", nil)
	}
	return c.JSON(http.StatusOK, TradingStatusResponse{Enabled: enabled})
}

// TradingEnable turns live execution back on
func (h *Handlers) TradingEnable(c echo.Context) error {
	return h.setTrading(c, true)
}

// TradingDisable flips the kill switch off
func (h *Handlers) TradingDisable(c echo.Context) error {
	return h.setTrading(c, false)
}

func (h *Handlers) setTrading(c echo.Context, enabled bool) error {
	if h.Cache == nil {
		return h.err(c, http.StatusBadRequest, "cache is not configured", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Cache.SetTradingEnabled(ctx, enabled); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to set trading switch", nil)
	}

	if h.Logger != nil {
		h.Logger.WithField("enabled", enabled).Info("trading switch changed")
	}
	return c.JSON(http.StatusOK, TradingStatusResponse{Enabled: enabled})
}
