package storage

import (
	"context"
	"io"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/models"
)

// ArbCache defines the interface for caching and distributing arb events.
type ArbCache interface {
	// AddRecentArb adds an event to the capped recent list.
	AddRecentArb(ctx context.Context, event *models.ArbEvent) error

	// GetRecentArbs retrieves the most recent events.
	GetRecentArbs(ctx context.Context, limit int64) ([]*models.ArbEvent, error)

	// PublishArb publishes an event to the live Pub/Sub channel.
	PublishArb(ctx context.Context, event *models.ArbEvent) error

	// SubscribeArbs subscribes to real-time events.
	SubscribeArbs(ctx context.Context) (<-chan *models.ArbEvent, error)

	// TradingEnabled reads the kill switch; true when trading may proceed.
	TradingEnabled(ctx context.Context) (bool, error)

	// SetTradingEnabled flips the kill switch.
	SetTradingEnabled(ctx context.Context, enabled bool) error

	// Ping checks if the cache is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	io.Closer
}

// ArbStore defines the interface for persistent arb history.
type ArbStore interface {
	// InsertArb appends an event to the history table.
	InsertArb(ctx context.Context, event *models.ArbEvent) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	io.Closer
}
