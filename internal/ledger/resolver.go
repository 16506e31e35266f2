package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"

	"solpay/internal/core"
)

// ResolveTokenAccount finds the holder's token account for a mint. Accounts
// are not created on demand: a holder without one cannot pay in that token.
// When several accounts exist the first in the RPC response is used.
func (c *Client) ResolveTokenAccount(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	out, err := c.rpc.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{Mint: mint.ToPointer()},
		&rpc.GetTokenAccountsOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
		},
	)
	if err != nil {
		return solana.PublicKey{}, core.E(core.KindLedger, "token account lookup failed", err)
	}
	if out == nil || len(out.Value) == 0 {
		return solana.PublicKey{}, core.E(core.KindNotFound, "no token account found for this wallet")
	}
	if len(out.Value) > 1 {
		log.Debug().
			Str("owner", owner.String()).
			Str("mint", mint.String()).
			Int("accounts", len(out.Value)).
			Msg("multiple token accounts, using first")
	}
	return out.Value[0].Pubkey, nil
}
