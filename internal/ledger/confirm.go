package ledger

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
)

// ConfirmationStatus is the point-in-time confirmation verdict for a
// submitted transaction.
type ConfirmationStatus string

const (
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationFailed    ConfirmationStatus = "failed"
)

// ConfirmTransaction performs a single signature-status check. It fails
// closed: a query error, an unknown signature or an on-chain error all map
// to failed.
func (c *Client) ConfirmTransaction(ctx context.Context, signature string) ConfirmationStatus {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		log.Warn().Str("signature", signature).Msg("malformed signature in confirmation check")
		return ConfirmationFailed
	}
	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		log.Error().Err(err).Str("signature", signature).Msg("signature status query failed")
		return ConfirmationFailed
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return ConfirmationFailed
	}
	st := out.Value[0]
	if st.Err != nil {
		return ConfirmationFailed
	}
	switch st.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return ConfirmationConfirmed
	}
	return ConfirmationFailed
}
