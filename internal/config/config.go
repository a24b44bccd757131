package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// RPC settings
	RPCUrl       string
	PollInterval time.Duration
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Rate limiting for reserve polling
	ReserveRequestsPerSecond float64
	ReserveBurst             int

	// Trading parameters
	SlippageBps        uint64
	ArbMarginBps       uint64
	ProfitThresholdBps uint64
	DryRun             bool
	SimulateFirst      bool

	// Risk limits
	MaxTradeNotional  float64
	MaxDailyNotional  float64
	MaxPriceImpactBps uint64

	// Wallet settings
	WalletPrivateKey string
	Commitment       string
	ConfirmTimeout   time.Duration

	// Venue configuration
	VenuesConfigPath string

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// API server settings
	APIAddr string
	APIKey  string
	DevMode bool
}

func Load() *Config {
	return &Config{
		// RPC
		RPCUrl:       getEnv("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		PollInterval: getDurationEnv("POLL_INTERVAL", 5*time.Second),
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 5),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 500*time.Millisecond),

		// Rate limiting
		ReserveRequestsPerSecond: getFloatEnv("RESERVE_RPS", 10),
		ReserveBurst:             getIntEnv("RESERVE_BURST", 4),

		// Trading
		SlippageBps:        getUint64Env("SLIPPAGE_BPS", 50),
		ArbMarginBps:       getUint64Env("ARB_MARGIN_BPS", 5),
		ProfitThresholdBps: getUint64Env("PROFIT_THRESHOLD_BPS", 10),
		DryRun:             getBoolEnv("DRY_RUN", true),
		SimulateFirst:      getBoolEnv("SIMULATE_FIRST", true),

		// Risk
		MaxTradeNotional:  getFloatEnv("MAX_TRADE_NOTIONAL", 1000),
		MaxDailyNotional:  getFloatEnv("MAX_DAILY_NOTIONAL", 10000),
		MaxPriceImpactBps: getUint64Env("MAX_PRICE_IMPACT_BPS", 200),

		// Wallet
		WalletPrivateKey: getEnv("WALLET_PRIVATE_KEY", ""),
		Commitment:       getEnv("COMMITMENT", "confirmed"),
		ConfirmTimeout:   getDurationEnv("CONFIRM_TIMEOUT", 60*time.Second),

		// Venues
		VenuesConfigPath: getEnv("VENUES_CONFIG", "configs/venues.json"),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "arbs"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// API
		APIAddr: getEnv("API_ADDR", ":8080"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),
	}
}

// Validate rejects settings that would make the bot misprice or overtrade.
func (c *Config) Validate() error {
	if c.RPCUrl == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	if c.SlippageBps >= 10000 {
		return fmt.Errorf("SLIPPAGE_BPS must be below 10000, got %d", c.SlippageBps)
	}
	if c.ArbMarginBps >= 10000 {
		return fmt.Errorf("ARB_MARGIN_BPS must be below 10000, got %d", c.ArbMarginBps)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive")
	}
	if !c.DryRun && c.WalletPrivateKey == "" {
		return fmt.Errorf("WALLET_PRIVATE_KEY is required when DRY_RUN is disabled")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getUint64Env(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if u, err := strconv.ParseUint(val, 10, 64); err == nil {
			return u
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
