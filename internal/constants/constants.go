package constants

// Redis keys
const (
	RedisKeyRecentArbs    = "arbs:recent"
	RedisKeyTradingSwitch = "arbs:trading_enabled"
)

// Redis Pub/Sub channels
const (
	PubSubChannelArbs = "arbs:live"
)

// Limits
const (
	MaxRecentArbs = 100
)

// DEX program addresses
const (
	// Orca legacy constant-product swap program
	OrcaSwapProgram = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"
	// Raydium AMM v4
	RaydiumAMMProgram = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	// Serum DEX v3
	SerumProgram = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
)
