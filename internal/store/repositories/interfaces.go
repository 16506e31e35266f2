package repositories

import (
	"context"
	"time"

	"solpay/internal/domain/payment"
	"solpay/internal/domain/subscription"
)

// PaymentUpdate carries partial updates; nil fields are left untouched.
type PaymentUpdate struct {
	Status      *payment.Status
	Signature   *string
	TxStatus    *string
	ErrorDetail *string
}

// PaymentStore defines the contract for payment persistence.
type PaymentStore interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByID(ctx context.Context, id string) (*payment.Payment, error)
	// FindByWallet returns the wallet's payments newest first.
	FindByWallet(ctx context.Context, wallet string) ([]*payment.Payment, error)
	// FindBySignature returns the newest record carrying the reference.
	FindBySignature(ctx context.Context, signature string) (*payment.Payment, error)
	Update(ctx context.Context, id string, upd PaymentUpdate) (*payment.Payment, error)
	// UpdateBySignature fails with a not-found kind when the reference is
	// unknown, leaving the store unchanged.
	UpdateBySignature(ctx context.Context, signature string, upd PaymentUpdate) (*payment.Payment, error)
	// FindStalePending lists submitted payments still pending after the
	// cutoff, for the reconciliation sweep.
	FindStalePending(ctx context.Context, updatedBefore time.Time, limit int) ([]*payment.Payment, error)
}

// SubscriptionStore defines the contract for subscription persistence.
type SubscriptionStore interface {
	// Create fails with a conflict kind on duplicate email.
	Create(ctx context.Context, s *subscription.Subscription) error
	FindByEmail(ctx context.Context, email string) (*subscription.Subscription, error)
}
