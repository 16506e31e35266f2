// Package ledger wraps the Solana RPC connection used for payment
// transfers. Transactions are built unsigned with the payer as fee payer so
// the caller's wallet can sign them; the server only submits the signed
// artifact. A local signer can be configured for operator-held keys.
package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"

	"solpay/internal/core"
)

// UnsignedTransaction is a serialized transaction awaiting the payer's
// signature.
type UnsignedTransaction struct {
	Base64    string `json:"transaction"`
	Blockhash string `json:"blockhash"`
}

type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	signer     *solana.PrivateKey
}

// New connects a client to the given RPC endpoint. secretKey may be empty;
// then only pre-signed submission is available.
func New(endpoint, commitment, secretKey string) (*Client, error) {
	c := &Client{
		rpc:        rpc.New(endpoint),
		commitment: parseCommitment(commitment),
	}
	if secretKey != "" {
		key, err := solana.PrivateKeyFromBase58(secretKey)
		if err != nil {
			return nil, fmt.Errorf("invalid signer key: %w", err)
		}
		c.signer = &key
	}
	return c, nil
}

func parseCommitment(s string) rpc.CommitmentType {
	switch s {
	case "processed":
		return rpc.CommitmentProcessed
	case "finalized":
		return rpc.CommitmentFinalized
	default:
		return rpc.CommitmentConfirmed
	}
}

// SignerKey returns the configured local signer's public key, if any.
func (c *Client) SignerKey() (solana.PublicKey, bool) {
	if c.signer == nil {
		return solana.PublicKey{}, false
	}
	return c.signer.PublicKey(), true
}

// BuildNativeTransfer builds an unsigned SOL transfer with payer as fee
// payer.
func (c *Client) BuildNativeTransfer(ctx context.Context, payer, recipient solana.PublicKey, lamports uint64) (*UnsignedTransaction, error) {
	ix := system.NewTransferInstruction(lamports, payer, recipient).Build()
	return c.buildTransaction(ctx, payer, ix)
}

// BuildTokenTransfer builds an unsigned SPL transfer between two resolved
// token accounts. TransferChecked pins mint and decimals so a wrong-decimals
// amount is rejected on chain.
func (c *Client) BuildTokenTransfer(ctx context.Context, payer, source, destination, mint solana.PublicKey, decimals uint8, amount uint64) (*UnsignedTransaction, error) {
	ix := token.NewTransferCheckedInstruction(amount, decimals, source, mint, destination, payer, nil).Build()
	return c.buildTransaction(ctx, payer, ix)
}

func (c *Client) buildTransaction(ctx context.Context, payer solana.PublicKey, ix solana.Instruction) (*UnsignedTransaction, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return nil, core.E(core.KindLedger, "fetching recent blockhash failed", err)
	}
	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		recent.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, core.E(core.KindLedger, "building transaction failed", err)
	}
	encoded, err := tx.ToBase64()
	if err != nil {
		return nil, core.E(core.KindLedger, "encoding transaction failed", err)
	}
	return &UnsignedTransaction{
		Base64:    encoded,
		Blockhash: recent.Value.Blockhash.String(),
	}, nil
}

// SubmitSigned submits a base64 transaction signed by the payer's wallet.
func (c *Client) SubmitSigned(ctx context.Context, encoded string) (string, error) {
	tx, err := solana.TransactionFromBase64(encoded)
	if err != nil {
		return "", core.E(core.KindValidation, "malformed signed transaction", err)
	}
	return c.send(ctx, tx)
}

// SubmitNativeTransfer signs and submits a SOL transfer from the local
// signer's account.
func (c *Client) SubmitNativeTransfer(ctx context.Context, recipient solana.PublicKey, lamports uint64) (string, error) {
	if c.signer == nil {
		return "", core.E(core.KindLedger, "no local signer configured")
	}
	unsigned, err := c.BuildNativeTransfer(ctx, c.signer.PublicKey(), recipient, lamports)
	if err != nil {
		return "", err
	}
	return c.signAndSend(ctx, unsigned)
}

// SubmitTokenTransfer signs and submits an SPL transfer out of the given
// source token account owned by the local signer.
func (c *Client) SubmitTokenTransfer(ctx context.Context, source, destination, mint solana.PublicKey, decimals uint8, amount uint64) (string, error) {
	if c.signer == nil {
		return "", core.E(core.KindLedger, "no local signer configured")
	}
	unsigned, err := c.BuildTokenTransfer(ctx, c.signer.PublicKey(), source, destination, mint, decimals, amount)
	if err != nil {
		return "", err
	}
	return c.signAndSend(ctx, unsigned)
}

func (c *Client) signAndSend(ctx context.Context, unsigned *UnsignedTransaction) (string, error) {
	tx, err := solana.TransactionFromBase64(unsigned.Base64)
	if err != nil {
		return "", core.E(core.KindLedger, "decoding built transaction failed", err)
	}
	signerKey := c.signer.PublicKey()
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(signerKey) {
			return c.signer
		}
		return nil
	}); err != nil {
		return "", core.E(core.KindLedger, "signing transaction failed", err)
	}
	return c.send(ctx, tx)
}

func (c *Client) send(ctx context.Context, tx *solana.Transaction) (string, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return "", core.E(core.KindLedger, "transaction submission failed", err)
	}
	log.Debug().Str("signature", sig.String()).Msg("transaction submitted")
	return sig.String(), nil
}
