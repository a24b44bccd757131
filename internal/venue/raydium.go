package venue

import (
	"github.com/gagliardetto/solana-go"
)

// buildRaydiumSwapInstruction constructs a Raydium AMM v4 swap_base_in
// instruction. The account order is fixed regardless of direction; the
// program resolves it from the user source account's mint.
func buildRaydiumSwapInstruction(
	v *Venue,
	amountIn, minAmountOut uint64,
	owner solana.PublicKey,
	userSource, userDestination solana.PublicKey,
) (solana.Instruction, error) {

	s := v.Serum
	accounts := []*solana.AccountMeta{
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: v.SwapAccount, IsWritable: true, IsSigner: false},
		{PublicKey: v.Authority, IsWritable: false, IsSigner: false},
		{PublicKey: v.OpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: v.TargetOrders, IsWritable: true, IsSigner: false},
		{PublicKey: v.VaultA, IsWritable: true, IsSigner: false},
		{PublicKey: v.VaultB, IsWritable: true, IsSigner: false},
		{PublicKey: s.ProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: s.Market, IsWritable: true, IsSigner: false},
		{PublicKey: s.Bids, IsWritable: true, IsSigner: false},
		{PublicKey: s.Asks, IsWritable: true, IsSigner: false},
		{PublicKey: s.EventQueue, IsWritable: true, IsSigner: false},
		{PublicKey: s.VaultA, IsWritable: true, IsSigner: false},
		{PublicKey: s.VaultB, IsWritable: true, IsSigner: false},
		{PublicKey: s.VaultSigner, IsWritable: false, IsSigner: false},
		{PublicKey: userSource, IsWritable: true, IsSigner: false},
		{PublicKey: userDestination, IsWritable: true, IsSigner: false},
		{PublicKey: owner, IsWritable: false, IsSigner: true},
	}

	return solana.NewInstruction(v.ProgramID, accounts, encodeSwapData(9, amountIn, minAmountOut)), nil
}
