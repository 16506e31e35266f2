package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Payment represents one attempt to pay the merchant in SOL or an SPL token.
type Payment struct {
	ID          string    `json:"id"`
	Token       Token     `json:"token"`
	Amount      float64   `json:"amount"`
	Wallet      string    `json:"userWallet"`
	Status      Status    `json:"status"`
	Method      string    `json:"paymentMethod,omitempty"`
	Signature   string    `json:"transactionId,omitempty"`
	TxStatus    string    `json:"transactionStatus,omitempty"`
	ErrorDetail string    `json:"error,omitempty"`
	FeeAmount   float64   `json:"feeAmount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Token is a supported payment token.
type Token string

const (
	TokenSOL  Token = "SOL"
	TokenUSDC Token = "USDC"
	TokenBARK Token = "BARK"
)

// Decimals returns the token's minor-unit precision. SOL amounts are
// denominated in lamports; the SPL tokens here both use 6 decimals.
func (t Token) Decimals() uint8 {
	if t == TokenSOL {
		return 9
	}
	return 6
}

// IsNative reports whether transfers use the system program rather than the
// token program.
func (t Token) IsNative() bool { return t == TokenSOL }

// ParseToken validates a token symbol from a request.
func ParseToken(s string) (Token, error) {
	switch Token(strings.ToUpper(strings.TrimSpace(s))) {
	case TokenSOL:
		return TokenSOL, nil
	case TokenUSDC:
		return TokenUSDC, nil
	case TokenBARK:
		return TokenBARK, nil
	default:
		return "", fmt.Errorf("unsupported token %q", s)
	}
}

// Status is the lifecycle state of a payment record.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool { return s == StatusSuccess || s == StatusFailed }

// ParseStatus validates a status value from a request.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusSuccess:
		return StatusSuccess, nil
	case StatusFailed:
		return StatusFailed, nil
	default:
		return "", fmt.Errorf("unknown payment status %q", s)
	}
}

// New creates a pending payment with a fresh identifier.
func New(token Token, amount float64, wallet, method string) (*Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %v", amount)
	}
	if strings.TrimSpace(wallet) == "" {
		return nil, fmt.Errorf("wallet address is required")
	}
	now := time.Now().UTC()
	return &Payment{
		ID:        NewID(),
		Token:     token,
		Amount:    amount,
		Wallet:    strings.TrimSpace(wallet),
		Status:    StatusPending,
		Method:    method,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Transition moves the payment to a new status. Terminal records stay put.
func (p *Payment) Transition(status Status) error {
	if p.Status.IsTerminal() && status != p.Status {
		return fmt.Errorf("payment %s is already %s", p.ID, p.Status)
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// AttachSignature records the ledger submission reference.
func (p *Payment) AttachSignature(sig string) {
	p.Signature = sig
	p.UpdatedAt = time.Now().UTC()
}

// Fail marks the payment failed with the underlying error detail.
func (p *Payment) Fail(detail string) {
	p.Status = StatusFailed
	p.ErrorDetail = detail
	p.UpdatedAt = time.Now().UTC()
}

// NewID returns an opaque payment identifier.
func NewID() string {
	var b [9]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return "pay_" + hex.EncodeToString(b[:])
}
