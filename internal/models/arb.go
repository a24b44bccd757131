package models

import "time"

// ArbEvent is one evaluated (and possibly executed) arbitrage round trip.
// Amounts are display units; DryRun events carry an empty signature.
type ArbEvent struct {
	Signature     string    `json:"signature"`
	Timestamp     time.Time `json:"timestamp"`
	Pair          string    `json:"pair"`
	BuyVenue      string    `json:"buy_venue"`
	SellVenue     string    `json:"sell_venue"`
	InputAmount   float64   `json:"input_amount"`
	Intermediate  float64   `json:"intermediate_amount"`
	OutputAmount  float64   `json:"output_amount"`
	BuyRate       float64   `json:"buy_rate"`
	SellRate      float64   `json:"sell_rate"`
	Ratio         float64   `json:"ratio"`
	IsSellBinding bool      `json:"is_sell_binding"`
	DryRun        bool      `json:"dry_run"`
	Executed      bool      `json:"executed"`
}
