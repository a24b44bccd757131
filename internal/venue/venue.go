// Package venue holds the static per-pool configuration: token pair, fee
// schedule, and the on-chain accounts needed to read reserves and build swap
// instructions. Venues are loaded from JSON once at startup, validated
// fail-fast, and never mutated.
package venue

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/token"
)

const (
	DexOrca    = "orca"
	DexRaydium = "raydium"
)

// Config is one venue entry in the JSON config file.
type Config struct {
	Name           string `json:"name"`
	Dex            string `json:"dex"`
	Pair           string `json:"pair"`
	TokenA         string `json:"token_a"`
	TokenB         string `json:"token_b"`
	FeeNumerator   uint64 `json:"fee_numerator"`
	FeeDenominator uint64 `json:"fee_denominator"`

	ProgramID   string `json:"program_id"`
	SwapAccount string `json:"swap_account"`
	Authority   string `json:"authority"`
	VaultA      string `json:"vault_a"`
	VaultB      string `json:"vault_b"`

	// Orca legacy pools only.
	PoolMint   string `json:"pool_mint,omitempty"`
	FeeAccount string `json:"fee_account,omitempty"`

	// Raydium AMM v4 pools only.
	OpenOrders   string       `json:"open_orders,omitempty"`
	TargetOrders string       `json:"target_orders,omitempty"`
	Serum        *SerumConfig `json:"serum,omitempty"`
}

// SerumConfig is the serum market account set a Raydium pool routes through.
type SerumConfig struct {
	ProgramID   string `json:"program_id"`
	Market      string `json:"market"`
	Bids        string `json:"bids"`
	Asks        string `json:"asks"`
	EventQueue  string `json:"event_queue"`
	VaultA      string `json:"vault_a"`
	VaultB      string `json:"vault_b"`
	VaultSigner string `json:"vault_signer"`
}

// SerumAccounts is the parsed form of SerumConfig.
type SerumAccounts struct {
	ProgramID   solana.PublicKey
	Market      solana.PublicKey
	Bids        solana.PublicKey
	Asks        solana.PublicKey
	EventQueue  solana.PublicKey
	VaultA      solana.PublicKey
	VaultB      solana.PublicKey
	VaultSigner solana.PublicKey
}

// Venue is a parsed, ready-to-use pool. Market carries the pricing
// parameters; the remaining fields are the instruction-building accounts.
type Venue struct {
	Name string
	Dex  string
	Pair string

	Market *amm.Market
	MintA  solana.PublicKey
	MintB  solana.PublicKey

	ProgramID   solana.PublicKey
	SwapAccount solana.PublicKey
	Authority   solana.PublicKey
	VaultA      solana.PublicKey
	VaultB      solana.PublicKey

	PoolMint   solana.PublicKey
	FeeAccount solana.PublicKey

	OpenOrders   solana.PublicKey
	TargetOrders solana.PublicKey
	Serum        *SerumAccounts
}

// Registry holds all configured venues, grouped by pair for the evaluation
// loop. Construct it explicitly and pass it down; there is no package-level
// instance.
type Registry struct {
	venues []*Venue
	byPair map[string][]*Venue
}

// LoadRegistry reads a JSON venue config and validates every entry against
// the token registry. Any mismatch is fatal.
func LoadRegistry(path string, tokens *token.Registry) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read venue config: %w", err)
	}

	var configs []Config
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse venue config: %w", err)
	}

	return NewRegistry(configs, tokens)
}

// NewRegistry builds a registry from already-decoded configs.
func NewRegistry(configs []Config, tokens *token.Registry) (*Registry, error) {
	r := &Registry{byPair: make(map[string][]*Venue)}
	for i, cfg := range configs {
		v, err := parseConfig(cfg, tokens)
		if err != nil {
			return nil, fmt.Errorf("venue %d (%s): %w", i, cfg.Name, err)
		}
		r.venues = append(r.venues, v)
		r.byPair[v.Pair] = append(r.byPair[v.Pair], v)
	}
	return r, nil
}

func parseConfig(cfg Config, tokens *token.Registry) (*Venue, error) {
	if cfg.Pair != cfg.TokenA+"/"+cfg.TokenB {
		return nil, fmt.Errorf("pair %q does not match tokens %s/%s", cfg.Pair, cfg.TokenA, cfg.TokenB)
	}

	infoA, err := tokens.Lookup(cfg.TokenA)
	if err != nil {
		return nil, err
	}
	infoB, err := tokens.Lookup(cfg.TokenB)
	if err != nil {
		return nil, err
	}

	market, err := amm.NewMarket(cfg.Name, cfg.TokenA, cfg.TokenB,
		infoA.Decimals, infoB.Decimals, cfg.FeeNumerator, cfg.FeeDenominator)
	if err != nil {
		return nil, err
	}

	v := &Venue{
		Name:   cfg.Name,
		Dex:    cfg.Dex,
		Pair:   cfg.Pair,
		Market: market,
		MintA:  infoA.Mint,
		MintB:  infoB.Mint,
	}

	keys := []struct {
		dst  *solana.PublicKey
		name string
		raw  string
	}{
		{&v.ProgramID, "program_id", cfg.ProgramID},
		{&v.SwapAccount, "swap_account", cfg.SwapAccount},
		{&v.Authority, "authority", cfg.Authority},
		{&v.VaultA, "vault_a", cfg.VaultA},
		{&v.VaultB, "vault_b", cfg.VaultB},
	}
	for _, k := range keys {
		if *k.dst, err = parseKey(k.name, k.raw); err != nil {
			return nil, err
		}
	}

	switch cfg.Dex {
	case DexOrca:
		if v.PoolMint, err = parseKey("pool_mint", cfg.PoolMint); err != nil {
			return nil, err
		}
		if v.FeeAccount, err = parseKey("fee_account", cfg.FeeAccount); err != nil {
			return nil, err
		}
	case DexRaydium:
		if v.OpenOrders, err = parseKey("open_orders", cfg.OpenOrders); err != nil {
			return nil, err
		}
		if v.TargetOrders, err = parseKey("target_orders", cfg.TargetOrders); err != nil {
			return nil, err
		}
		if cfg.Serum == nil {
			return nil, fmt.Errorf("raydium venue requires serum accounts")
		}
		serum := &SerumAccounts{}
		serumKeys := []struct {
			dst  *solana.PublicKey
			name string
			raw  string
		}{
			{&serum.ProgramID, "serum.program_id", cfg.Serum.ProgramID},
			{&serum.Market, "serum.market", cfg.Serum.Market},
			{&serum.Bids, "serum.bids", cfg.Serum.Bids},
			{&serum.Asks, "serum.asks", cfg.Serum.Asks},
			{&serum.EventQueue, "serum.event_queue", cfg.Serum.EventQueue},
			{&serum.VaultA, "serum.vault_a", cfg.Serum.VaultA},
			{&serum.VaultB, "serum.vault_b", cfg.Serum.VaultB},
			{&serum.VaultSigner, "serum.vault_signer", cfg.Serum.VaultSigner},
		}
		for _, k := range serumKeys {
			if *k.dst, err = parseKey(k.name, k.raw); err != nil {
				return nil, err
			}
		}
		v.Serum = serum
	default:
		return nil, fmt.Errorf("unsupported dex %q", cfg.Dex)
	}

	return v, nil
}

func parseKey(name, raw string) (solana.PublicKey, error) {
	if raw == "" {
		return solana.PublicKey{}, fmt.Errorf("missing %s", name)
	}
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return key, nil
}

// All returns every configured venue.
func (r *Registry) All() []*Venue {
	return r.venues
}

// FindByName looks a venue up by its unique name.
func (r *Registry) FindByName(name string) (*Venue, error) {
	for _, v := range r.venues {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("venue not found: %s", name)
}

// FindByPair returns all venues trading the given pair.
func (r *Registry) FindByPair(pair string) []*Venue {
	return r.byPair[pair]
}

// Pairs returns the pairs that have at least two venues, i.e. the ones the
// evaluation loop can arbitrage.
func (r *Registry) Pairs() []string {
	out := make([]string, 0, len(r.byPair))
	for pair, vs := range r.byPair {
		if len(vs) >= 2 {
			out = append(out, pair)
		}
	}
	return out
}

// Count returns the number of configured venues.
func (r *Registry) Count() int {
	return len(r.venues)
}
