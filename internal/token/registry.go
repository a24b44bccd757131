// Package token holds the static mint registry: symbol to mint address and
// display decimals. Loaded once at startup and read-only afterwards.
package token

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Info describes one SPL token the bot can trade.
type Info struct {
	Symbol   string
	Mint     solana.PublicKey
	Decimals uint8
}

// Registry maps token symbols to their mint metadata.
type Registry struct {
	tokens map[string]Info
}

type entry struct {
	mint     string
	decimals uint8
}

// Mainnet mints, matching the vaults in the venue config.
var defaultEntries = map[string]entry{
	"SOL":  {"So11111111111111111111111111111111111111112", 9},
	"USDC": {"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", 6},
	"USDT": {"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB", 6},
	"BTC":  {"9n4nbM75f5Ui33ZbPYXn59EwSgE8CGsHtAeTH5YFeJ9E", 6},
	"ETH":  {"2FPyTwcZLUg1MDrwsyoP4D6s1tM7hAkHYRjkNb5w6Pxk", 6},
	"mSOL": {"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So", 9},
	"RAY":  {"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R", 6},
	"SRM":  {"SRMuApVNdxXokk5GT7XD5cUUgXMBCoAz2LHeuAoKWRt", 6},
	"ORCA": {"orcaEKTdK7LKz57vaAYr9QeNsVEPfiu6QeMU1kektZE", 6},
}

// NewRegistry builds the default mainnet registry, validating every mint
// address at construction so a typo fails at startup.
func NewRegistry() (*Registry, error) {
	tokens := make(map[string]Info, len(defaultEntries))
	for symbol, e := range defaultEntries {
		mint, err := solana.PublicKeyFromBase58(e.mint)
		if err != nil {
			return nil, fmt.Errorf("token %s: invalid mint %q: %w", symbol, e.mint, err)
		}
		tokens[symbol] = Info{Symbol: symbol, Mint: mint, Decimals: e.decimals}
	}
	return &Registry{tokens: tokens}, nil
}

// Lookup returns the token info for a symbol.
func (r *Registry) Lookup(symbol string) (Info, error) {
	info, ok := r.tokens[symbol]
	if !ok {
		return Info{}, fmt.Errorf("unknown token symbol: %s", symbol)
	}
	return info, nil
}

// Symbols returns all registered symbols.
func (r *Registry) Symbols() []string {
	out := make([]string, 0, len(r.tokens))
	for s := range r.tokens {
		out = append(out, s)
	}
	return out
}
