package server

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// VenueResponse describes one configured pool
type VenueResponse struct {
	Name           string `json:"name"`
	Dex            string `json:"dex"`
	Pair           string `json:"pair"`
	FeeNumerator   uint64 `json:"fee_numerator"`
	FeeDenominator uint64 `json:"fee_denominator"`
}

// LegQuoteResponse is one direction of a venue quote. Decimal fields are
// strings to keep full precision on the wire.
type LegQuoteResponse struct {
	Side              string `json:"side"`
	InputAmount       uint64 `json:"input_amount"`
	MinimumOut        uint64 `json:"minimum_out"`
	NoSlippageOut     uint64 `json:"no_slippage_out"`
	Rate              string `json:"rate"`
	Price             string `json:"price"`
	PriceImpact       string `json:"price_impact"`
	InPoolAmount      uint64 `json:"in_pool_amount"`
	OutPoolAmount     uint64 `json:"out_pool_amount"`
	SlippageTolerance uint64 `json:"slippage_tolerance_bps"`
}

// QuoteResponse carries both directions of a venue quote
type QuoteResponse struct {
	Venue string            `json:"venue"`
	Pair  string            `json:"pair"`
	Buy   *LegQuoteResponse `json:"buy"`
	Sell  *LegQuoteResponse `json:"sell"`
}

// OpportunityResponse is one sized cross-venue round trip
type OpportunityResponse struct {
	Pair               string `json:"pair"`
	BuyVenue           string `json:"buy_venue"`
	SellVenue          string `json:"sell_venue"`
	IsSellBinding      bool   `json:"is_sell_binding"`
	InputAmount        uint64 `json:"input_amount"`
	IntermediateAmount uint64 `json:"intermediate_amount"`
	FinalOutputAmount  uint64 `json:"final_output_amount"`
	Ratio              string `json:"ratio"`
}

// TradingStatusResponse reports the kill switch state
type TradingStatusResponse struct {
	Enabled bool `json:"enabled"`
}
