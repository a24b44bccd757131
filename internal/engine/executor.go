package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/venue"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/wallet"
)

// Executor turns a sized candidate into a single atomic transaction: buy leg
// and sell leg back to back, so a partial fill cannot strand inventory.
type Executor struct {
	wallet        *wallet.Wallet
	tokenAccounts TokenAccountResolver
	logger        *logrus.Logger

	simulateFirst  bool
	confirmTimeout time.Duration
}

// ExecutorConfig configures execution behavior.
type ExecutorConfig struct {
	Wallet         *wallet.Wallet
	SimulateFirst  bool
	ConfirmTimeout time.Duration
	Logger         *logrus.Logger
}

func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if cfg.Wallet == nil {
		return nil, fmt.Errorf("executor: wallet is required")
	}
	if cfg.ConfirmTimeout <= 0 {
		cfg.ConfirmTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Executor{
		wallet:         cfg.Wallet,
		tokenAccounts:  NewATAResolver(cfg.Wallet),
		logger:         cfg.Logger,
		simulateFirst:  cfg.SimulateFirst,
		confirmTimeout: cfg.ConfirmTimeout,
	}, nil
}

// WithTokenAccountResolver overrides the default ATA resolver.
func (e *Executor) WithTokenAccountResolver(r TokenAccountResolver) *Executor {
	if r != nil {
		e.tokenAccounts = r
	}
	return e
}

// Execute submits the two-leg round trip and waits for confirmation. The
// candidate's amounts are embedded directly: the buy leg spends InputAmount
// with IntermediateAmount as its floor, the sell leg spends
// IntermediateAmount with FinalOutputAmount as its floor.
func (e *Executor) Execute(ctx context.Context, buyVenue, sellVenue *venue.Venue, c *arb.Candidate) (string, error) {
	owner := e.wallet.PublicKey()

	// Both venues trade the same pair, so the mints match.
	secondary, err := e.tokenAccounts.Resolve(ctx, owner, buyVenue.MintB)
	if err != nil {
		return "", fmt.Errorf("resolve secondary token account: %w", err)
	}
	primary, err := e.tokenAccounts.Resolve(ctx, owner, buyVenue.MintA)
	if err != nil {
		return "", fmt.Errorf("resolve primary token account: %w", err)
	}

	buyIx, err := buyVenue.SwapInstruction(
		amm.SideBuy, c.InputAmount, c.IntermediateAmount,
		owner, secondary.Account, primary.Account,
	)
	if err != nil {
		return "", fmt.Errorf("build buy instruction: %w", err)
	}

	sellIx, err := sellVenue.SwapInstruction(
		amm.SideSell, c.IntermediateAmount, c.FinalOutputAmount,
		owner, primary.Account, secondary.Account,
	)
	if err != nil {
		return "", fmt.Errorf("build sell instruction: %w", err)
	}

	var ixs []solana.Instruction
	ixs = append(ixs, secondary.PreIxs...)
	ixs = append(ixs, primary.PreIxs...)
	ixs = append(ixs, buyIx, sellIx)

	tx, err := e.wallet.BuildTransaction(ctx, ixs)
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}

	if e.simulateFirst {
		if _, err := e.wallet.SimulateTransaction(ctx, tx); err != nil {
			return "", fmt.Errorf("simulation rejected: %w", err)
		}
	}

	if err := e.wallet.SignTx(tx); err != nil {
		return "", err
	}

	sig, err := e.wallet.SendTx(ctx, tx)
	if err != nil {
		return "", err
	}

	e.logger.WithFields(logrus.Fields{
		"signature":  sig,
		"buy_venue":  buyVenue.Name,
		"sell_venue": sellVenue.Name,
		"input":      c.InputAmount,
	}).Info("arbitrage transaction sent")

	if err := e.wallet.ConfirmTransaction(ctx, sig, e.confirmTimeout); err != nil {
		return sig, fmt.Errorf("confirmation failed: %w", err)
	}

	return sig, nil
}
