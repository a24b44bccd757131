package venue

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/token"
)

func orcaConfig() Config {
	return Config{
		Name:           "orca BTC/USDC",
		Dex:            DexOrca,
		Pair:           "BTC/USDC",
		TokenA:         "BTC",
		TokenB:         "USDC",
		FeeNumerator:   30,
		FeeDenominator: 10000,
		ProgramID:      "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
		SwapAccount:    "2dwHmCoAGxCXvTbLTMjqAhvEFAHWUt9kZaroJJJdmoD4",
		Authority:      "BwJ1vMtJiBy7dJaVToR1KUwVbBsGUTNN4QdKVSf8EEh1",
		VaultA:         "D3Wv78j9STkfJx3vhzoCzpMZ4RqCg8oaTNGzi1rZpdJg",
		VaultB:         "HMFLg2GtbWSSEe92Vuf2LQdUpCacGj2m2PwvMqzwQFNi",
		PoolMint:       "J3kvcay3N16FBdawgnqoJ9v9p6XCvyCLE2Z9F5RLvGkj",
		FeeAccount:     "HR7c67SkeLvCpHrVSu7MiiAERQh6iD1NrCJsj3kWiZnK",
	}
}

func raydiumConfig() Config {
	return Config{
		Name:           "raydium BTC/USDC",
		Dex:            DexRaydium,
		Pair:           "BTC/USDC",
		TokenA:         "BTC",
		TokenB:         "USDC",
		FeeNumerator:   25,
		FeeDenominator: 10000,
		ProgramID:      "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8",
		SwapAccount:    "6kbC5epG18DF2DwPEW34tBy5pGFS7pEGALR3v5MGxgc5",
		Authority:      "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1",
		VaultA:         "HWTaEDR6BpWjmyeUyfGZjeppLnH7s8o225Saar7FYDt5",
		VaultB:         "7iGcnvoLAxthsXY3AFSgkTDoqnLiuti5fyPNm2VwZ3Wz",
		OpenOrders:     "L6A7qW935i2HgaiaRx6xNGCGQfFr4myFU51dUSnCshd",
		TargetOrders:   "6DGjaczWfFthTYW7oBk3MXP2mMwrYq86PA3ki5YF6hLg",
		Serum: &SerumConfig{
			ProgramID:   "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			Market:      "A8YFbxQYFVqKZaoYJLLUVcQiWP7G2MeEgW5wsAQgMvFw",
			Bids:        "6wLt7CX1zZdFpa6uGJJpZfzWvG6W9rxXjquJDYiFwf9K",
			Asks:        "6EyVXMMA58Nf6MScqeLpw1jS12RCpry23u9VMfy8b65Y",
			EventQueue:  "6NQqaa48SnBBJZt9HyVPngcZFW81JfDv9EjRX2M4WkbP",
			VaultA:      "GZ1YSupuUq9kB28kX9t1j9qCpN67AMMwn4Q72BzeSpfR",
			VaultB:      "7sP9fug8rqZFLbXoEj8DETF81KasaRA1fr6jQb6ScKc5",
			VaultSigner: "GBWgHXLf1fX4J1p5fAkQoEbnjpgjxUtr4mrVgtj9wW8a",
		},
	}
}

func tokenRegistry(t *testing.T) *token.Registry {
	t.Helper()
	tokens, err := token.NewRegistry()
	require.NoError(t, err)
	return tokens
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry([]Config{orcaConfig(), raydiumConfig()}, tokenRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"BTC/USDC"}, r.Pairs())
	assert.Len(t, r.FindByPair("BTC/USDC"), 2)

	v, err := r.FindByName("orca BTC/USDC")
	require.NoError(t, err)
	assert.Equal(t, DexOrca, v.Dex)
	assert.Equal(t, uint64(30), v.Market.FeeNumerator)
	assert.Equal(t, uint8(6), v.Market.DecimalsA)

	_, err = r.FindByName("nonexistent")
	assert.Error(t, err)
}

func TestNewRegistryValidation(t *testing.T) {
	tokens := tokenRegistry(t)

	t.Run("pair name mismatch", func(t *testing.T) {
		cfg := orcaConfig()
		cfg.Pair = "ETH/USDC"
		_, err := NewRegistry([]Config{cfg}, tokens)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match tokens")
	})

	t.Run("unknown token", func(t *testing.T) {
		cfg := orcaConfig()
		cfg.Pair = "DOGE/USDC"
		cfg.TokenA = "DOGE"
		_, err := NewRegistry([]Config{cfg}, tokens)
		assert.Error(t, err)
	})

	t.Run("invalid fee schedule", func(t *testing.T) {
		cfg := orcaConfig()
		cfg.FeeDenominator = 0
		_, err := NewRegistry([]Config{cfg}, tokens)
		assert.Error(t, err)
	})

	t.Run("bad public key", func(t *testing.T) {
		cfg := orcaConfig()
		cfg.VaultA = "not-a-key"
		_, err := NewRegistry([]Config{cfg}, tokens)
		assert.Error(t, err)
	})

	t.Run("raydium without serum accounts", func(t *testing.T) {
		cfg := raydiumConfig()
		cfg.Serum = nil
		_, err := NewRegistry([]Config{cfg}, tokens)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "serum")
	})
}

func TestOrcaSwapInstruction(t *testing.T) {
	r, err := NewRegistry([]Config{orcaConfig()}, tokenRegistry(t))
	require.NoError(t, err)
	v, err := r.FindByName("orca BTC/USDC")
	require.NoError(t, err)

	owner := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	src := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	dst := solana.MustPublicKeyFromBase58("9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E")

	ix, err := v.SwapInstruction(amm.SideBuy, 1_000_000, 950_000, owner, src, dst)
	require.NoError(t, err)

	assert.Equal(t, v.ProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 10)
	// buying routes B->A: pool source is the B vault
	assert.Equal(t, v.VaultB, accounts[4].PublicKey)
	assert.Equal(t, v.VaultA, accounts[5].PublicKey)
	assert.True(t, accounts[2].IsSigner)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, byte(1), data[0])
	assert.Equal(t, []byte{0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}, data[1:9])
	assert.Equal(t, []byte{0x30, 0x7e, 0x0e, 0, 0, 0, 0, 0}, data[9:17])
}

func TestRaydiumSwapInstruction(t *testing.T) {
	r, err := NewRegistry([]Config{raydiumConfig()}, tokenRegistry(t))
	require.NoError(t, err)
	v, err := r.FindByName("raydium BTC/USDC")
	require.NoError(t, err)

	owner := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	src := solana.MustPublicKeyFromBase58("9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E")
	dst := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	ix, err := v.SwapInstruction(amm.SideSell, 2_000_000, 1_900_000, owner, src, dst)
	require.NoError(t, err)

	accounts := ix.Accounts()
	require.Len(t, accounts, 18)
	assert.Equal(t, solana.TokenProgramID, accounts[0].PublicKey)
	assert.Equal(t, v.SwapAccount, accounts[1].PublicKey)
	assert.Equal(t, v.Serum.Market, accounts[8].PublicKey)
	assert.Equal(t, owner, accounts[17].PublicKey)
	assert.True(t, accounts[17].IsSigner)

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, byte(9), data[0])
}
