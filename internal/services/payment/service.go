// Package payment orchestrates the payment flow: validate the request,
// write a pending record, route the transfer by token type, and track the
// submission through confirmation. The record is always written before the
// ledger is touched so a crash mid-flow leaves a pending row the
// reconciliation sweep can pick up.
package payment

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog/log"

	"solpay/internal/config"
	"solpay/internal/core"
	"solpay/internal/domain/payment"
	"solpay/internal/ledger"
	"solpay/internal/store/repositories"
)

type Service struct {
	ledger   Ledger
	store    repositories.PaymentStore
	merchant solana.PublicKey
	usdcMint solana.PublicKey
	barkMint solana.PublicKey
	feePct   float64
}

func NewService(l Ledger, store repositories.PaymentStore, cfg config.Cfg) *Service {
	return &Service{
		ledger:   l,
		store:    store,
		merchant: cfg.Solana.MerchantWallet,
		usdcMint: cfg.Solana.USDCMint,
		barkMint: cfg.Solana.BARKMint,
		feePct:   cfg.Payments.MerchantFeePercentage,
	}
}

// CreateRequest is an incoming payment request.
type CreateRequest struct {
	Token  string  `json:"token"`
	Amount float64 `json:"amount"`
	Wallet string  `json:"userWallet"`
	Method string  `json:"paymentMethod"`
}

// Intent pairs the pending record with the unsigned transaction the payer's
// wallet must sign.
type Intent struct {
	Payment     *payment.Payment            `json:"payment"`
	Transaction *ledger.UnsignedTransaction `json:"transaction"`
}

// Create validates the request, records a pending payment and builds the
// unsigned transfer for the payer to sign.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Intent, error) {
	token, payer, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	rec, err := payment.New(token, req.Amount, req.Wallet, req.Method)
	if err != nil {
		return nil, core.E(core.KindValidation, err.Error(), err)
	}
	rec.FeeAmount = req.Amount * s.feePct / 100

	// Pending record first; the sweep reconciles anything orphaned here.
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	unsigned, err := s.buildTransfer(ctx, token, payer, req.Amount)
	if err != nil {
		s.markFailed(ctx, rec.ID, err)
		return nil, err
	}

	log.Info().
		Str("payment_id", rec.ID).
		Str("token", string(token)).
		Float64("amount", req.Amount).
		Msg("payment intent created")
	return &Intent{Payment: rec, Transaction: unsigned}, nil
}

// Submit sends a payer-signed transaction to the network and attaches the
// resulting signature to the record. The record stays pending until a
// confirmation check finalizes it.
func (s *Service) Submit(ctx context.Context, paymentID, signedTx string) (*payment.Payment, error) {
	rec, err := s.store.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if rec.Status.IsTerminal() {
		return nil, core.E(core.KindConflict, "payment already finalized")
	}
	if signedTx == "" {
		return nil, core.E(core.KindValidation, "signed transaction is required")
	}

	sig, err := s.ledger.SubmitSigned(ctx, signedTx)
	if err != nil {
		s.markFailed(ctx, rec.ID, err)
		return nil, err
	}
	updated, err := s.store.Update(ctx, rec.ID, repositories.PaymentUpdate{Signature: &sig})
	if err != nil {
		// The transfer is on the wire but the record lags; the sweep will
		// not find it without a signature, so log loudly.
		log.Error().Err(err).
			Str("payment_id", rec.ID).
			Str("signature", sig).
			Msg("signature persisted nowhere after submission")
		return nil, err
	}
	log.Info().Str("payment_id", rec.ID).Str("signature", sig).Msg("payment submitted")
	return updated, nil
}

// Process is the direct-signer path: validate, record, transfer and finalize
// in one call. It requires the configured local signer to be the payer and
// always leaves exactly one record, success or failed.
func (s *Service) Process(ctx context.Context, req CreateRequest) (*payment.Payment, error) {
	token, payer, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	rec, err := payment.New(token, req.Amount, req.Wallet, req.Method)
	if err != nil {
		return nil, core.E(core.KindValidation, err.Error(), err)
	}
	rec.FeeAmount = req.Amount * s.feePct / 100
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, err
	}

	sig, err := s.transferDirect(ctx, token, payer, req.Amount)
	if err != nil {
		s.markFailed(ctx, rec.ID, err)
		return nil, err
	}

	status := payment.StatusSuccess
	updated, err := s.store.Update(ctx, rec.ID, repositories.PaymentUpdate{
		Status:    &status,
		Signature: &sig,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("payment_id", rec.ID).Str("signature", sig).Msg("payment processed")
	return updated, nil
}

// Confirm runs a single confirmation check against the ledger and finalizes
// the record. Terminal records are returned unchanged.
func (s *Service) Confirm(ctx context.Context, paymentID string) (*payment.Payment, error) {
	rec, err := s.store.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if rec.Status.IsTerminal() {
		return rec, nil
	}
	if rec.Signature == "" {
		return nil, core.E(core.KindValidation, "payment has not been submitted yet")
	}

	verdict := s.ledger.ConfirmTransaction(ctx, rec.Signature)
	upd := repositories.PaymentUpdate{}
	if verdict == ledger.ConfirmationConfirmed {
		status := payment.StatusSuccess
		upd.Status = &status
	} else {
		status := payment.StatusFailed
		detail := "transaction not confirmed on ledger"
		upd.Status = &status
		upd.ErrorDetail = &detail
	}
	txStatus := string(verdict)
	upd.TxStatus = &txStatus
	return s.store.Update(ctx, rec.ID, upd)
}

// UpdateByReference applies a client-reported status by transaction
// reference (the PUT surface).
func (s *Service) UpdateByReference(ctx context.Context, signature, paymentStatus, txStatus string) (*payment.Payment, error) {
	if signature == "" || paymentStatus == "" || txStatus == "" {
		return nil, core.E(core.KindValidation, "transactionId, paymentStatus and transactionStatus are required")
	}
	status, err := payment.ParseStatus(paymentStatus)
	if err != nil {
		return nil, core.E(core.KindValidation, err.Error(), err)
	}
	return s.store.UpdateBySignature(ctx, signature, repositories.PaymentUpdate{
		Status:   &status,
		TxStatus: &txStatus,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*payment.Payment, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) ListByWallet(ctx context.Context, wallet string) ([]*payment.Payment, error) {
	return s.store.FindByWallet(ctx, wallet)
}

// validate rejects bad requests before any ledger or store interaction.
func (s *Service) validate(req CreateRequest) (payment.Token, solana.PublicKey, error) {
	if req.Token == "" || req.Amount == 0 || req.Wallet == "" {
		return "", solana.PublicKey{}, core.E(core.KindValidation, "missing required fields (token, amount, userWallet)")
	}
	token, err := payment.ParseToken(req.Token)
	if err != nil {
		return "", solana.PublicKey{}, core.E(core.KindUnsupportedToken, err.Error(), err)
	}
	if req.Amount <= 0 {
		return "", solana.PublicKey{}, core.E(core.KindValidation, "amount must be positive")
	}
	payer, err := solana.PublicKeyFromBase58(req.Wallet)
	if err != nil {
		return "", solana.PublicKey{}, core.E(core.KindValidation, "invalid wallet address", err)
	}
	return token, payer, nil
}

func (s *Service) buildTransfer(ctx context.Context, token payment.Token, payer solana.PublicKey, amount float64) (*ledger.UnsignedTransaction, error) {
	units, err := ledger.ToMinorUnits(amount, token.Decimals())
	if err != nil {
		return nil, core.E(core.KindValidation, err.Error(), err)
	}
	if token.IsNative() {
		return s.ledger.BuildNativeTransfer(ctx, payer, s.merchant, units)
	}
	mint := s.mintFor(token)
	source, err := s.ledger.ResolveTokenAccount(ctx, payer, mint)
	if err != nil {
		return nil, err
	}
	destination, err := s.ledger.ResolveTokenAccount(ctx, s.merchant, mint)
	if err != nil {
		return nil, err
	}
	return s.ledger.BuildTokenTransfer(ctx, payer, source, destination, mint, token.Decimals(), units)
}

func (s *Service) transferDirect(ctx context.Context, token payment.Token, payer solana.PublicKey, amount float64) (string, error) {
	signer, ok := s.ledger.SignerKey()
	if !ok {
		return "", core.E(core.KindLedger, "no local signer configured; use the signing handshake")
	}
	if !payer.Equals(signer) {
		// Never sign for a wallet we do not hold the key for.
		return "", core.E(core.KindValidation, "wallet does not match the configured signer")
	}
	units, err := ledger.ToMinorUnits(amount, token.Decimals())
	if err != nil {
		return "", core.E(core.KindValidation, err.Error(), err)
	}
	if token.IsNative() {
		return s.ledger.SubmitNativeTransfer(ctx, s.merchant, units)
	}
	mint := s.mintFor(token)
	source, err := s.ledger.ResolveTokenAccount(ctx, payer, mint)
	if err != nil {
		return "", err
	}
	destination, err := s.ledger.ResolveTokenAccount(ctx, s.merchant, mint)
	if err != nil {
		return "", err
	}
	return s.ledger.SubmitTokenTransfer(ctx, source, destination, mint, token.Decimals(), units)
}

func (s *Service) mintFor(token payment.Token) solana.PublicKey {
	if token == payment.TokenBARK {
		return s.barkMint
	}
	return s.usdcMint
}

// markFailed records the raw failure detail on the payment row. Clients only
// ever see the kind's safe message.
func (s *Service) markFailed(ctx context.Context, id string, cause error) {
	status := payment.StatusFailed
	detail := cause.Error()
	if _, err := s.store.Update(ctx, id, repositories.PaymentUpdate{
		Status:      &status,
		ErrorDetail: &detail,
	}); err != nil {
		log.Error().Err(err).Str("payment_id", id).Msg("recording payment failure failed")
	}
}
