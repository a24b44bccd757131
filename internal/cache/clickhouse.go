package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/models"
)

// ClickHouseStore persists the arb history table.
type ClickHouseStore struct {
	conn driver.Conn
}

// ClickHouseConfig holds connection settings. Database defaults to "arbs",
// Username to "default".
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

func NewClickHouseStore(cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Database == "" {
		cfg.Database = "arbs"
	}
	if cfg.Username == "" {
		cfg.Username = "default"
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Println("✅ Connected to ClickHouse")

	return &ClickHouseStore{
		conn: conn,
	}, nil
}

func (c *ClickHouseStore) InsertArb(ctx context.Context, event *models.ArbEvent) error {
	query := `
		INSERT INTO arb_trades (
			signature, timestamp, pair, buy_venue, sell_venue,
			input_amount, intermediate_amount, output_amount,
			buy_rate, sell_rate, ratio, is_sell_binding, dry_run, executed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		event.Signature,
		event.Timestamp,
		event.Pair,
		event.BuyVenue,
		event.SellVenue,
		event.InputAmount,
		event.Intermediate,
		event.OutputAmount,
		event.BuyRate,
		event.SellRate,
		event.Ratio,
		event.IsSellBinding,
		event.DryRun,
		event.Executed,
	)

	if err != nil {
		return fmt.Errorf("failed to insert arb: %w", err)
	}

	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
