package venue

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/amm"
)

// buildOrcaSwapInstruction constructs an SPL token-swap style instruction for
// an Orca legacy pool. Buying routes B->A through the pool, selling A->B.
func buildOrcaSwapInstruction(
	v *Venue,
	side amm.Side,
	amountIn, minAmountOut uint64,
	owner solana.PublicKey,
	userSource, userDestination solana.PublicKey,
) (solana.Instruction, error) {

	poolSource, poolDest := v.VaultA, v.VaultB
	if side == amm.SideBuy {
		poolSource, poolDest = v.VaultB, v.VaultA
	}

	// SPL token-swap account order:
	// swap_state, authority, user_transfer_authority, user_source,
	// pool_source, pool_destination, user_destination, pool_mint,
	// fee_account, token_program
	accounts := []*solana.AccountMeta{
		{PublicKey: v.SwapAccount, IsWritable: false, IsSigner: false},
		{PublicKey: v.Authority, IsWritable: false, IsSigner: false},
		{PublicKey: owner, IsWritable: false, IsSigner: true},
		{PublicKey: userSource, IsWritable: true, IsSigner: false},
		{PublicKey: poolSource, IsWritable: true, IsSigner: false},
		{PublicKey: poolDest, IsWritable: true, IsSigner: false},
		{PublicKey: userDestination, IsWritable: true, IsSigner: false},
		{PublicKey: v.PoolMint, IsWritable: true, IsSigner: false},
		{PublicKey: v.FeeAccount, IsWritable: true, IsSigner: false},
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
	}

	return solana.NewInstruction(v.ProgramID, accounts, encodeSwapData(1, amountIn, minAmountOut)), nil
}

// encodeSwapData packs the shared (cmd u8, in_amount u64 LE,
// min_out_amount u64 LE) layout used by both supported programs.
func encodeSwapData(cmd byte, amountIn, minAmountOut uint64) []byte {
	data := make([]byte, 17)
	data[0] = cmd
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minAmountOut)
	return data
}

// SwapInstruction builds the on-chain swap instruction for one leg on this
// venue, dispatching on the DEX program.
func (v *Venue) SwapInstruction(
	side amm.Side,
	amountIn, minAmountOut uint64,
	owner solana.PublicKey,
	userSource, userDestination solana.PublicKey,
) (solana.Instruction, error) {
	switch v.Dex {
	case DexOrca:
		return buildOrcaSwapInstruction(v, side, amountIn, minAmountOut, owner, userSource, userDestination)
	case DexRaydium:
		return buildRaydiumSwapInstruction(v, amountIn, minAmountOut, owner, userSource, userDestination)
	default:
		return nil, fmt.Errorf("venue %s: unsupported dex %q", v.Name, v.Dex)
	}
}
