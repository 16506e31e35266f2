package payment

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"solpay/internal/ledger"
)

// Ledger is the slice of the Solana client the orchestrator depends on.
// *ledger.Client satisfies it; tests substitute a mock.
type Ledger interface {
	BuildNativeTransfer(ctx context.Context, payer, recipient solana.PublicKey, lamports uint64) (*ledger.UnsignedTransaction, error)
	BuildTokenTransfer(ctx context.Context, payer, source, destination, mint solana.PublicKey, decimals uint8, amount uint64) (*ledger.UnsignedTransaction, error)
	SubmitSigned(ctx context.Context, encoded string) (string, error)
	SubmitNativeTransfer(ctx context.Context, recipient solana.PublicKey, lamports uint64) (string, error)
	SubmitTokenTransfer(ctx context.Context, source, destination, mint solana.PublicKey, decimals uint8, amount uint64) (string, error)
	ResolveTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, error)
	ConfirmTransaction(ctx context.Context, signature string) ledger.ConfirmationStatus
	SignerKey() (solana.PublicKey, bool)
}

var _ Ledger = (*ledger.Client)(nil)
