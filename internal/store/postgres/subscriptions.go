package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"solpay/internal/core"
	"solpay/internal/domain/subscription"
	"solpay/internal/store/repositories"
)

type SubscriptionStore struct {
	db *pgxpool.Pool
}

func NewSubscriptionStore(db *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

var _ repositories.SubscriptionStore = (*SubscriptionStore)(nil)

func (s *SubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	err := s.db.QueryRow(ctx, `
		INSERT INTO subscriptions (email, created_at)
		VALUES ($1, $2)
		RETURNING id`, sub.Email, sub.CreatedAt).Scan(&sub.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return core.E(core.KindConflict, "email already subscribed", err)
		}
		return core.E(core.KindPersistence, "insert subscription failed", err)
	}
	return nil
}

func (s *SubscriptionStore) FindByEmail(ctx context.Context, email string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	err := s.db.QueryRow(ctx, `
		SELECT id, email, created_at FROM subscriptions WHERE email = $1`, email).
		Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.E(core.KindNotFound, "subscription not found", err)
	}
	if err != nil {
		return nil, core.E(core.KindPersistence, "lookup subscription failed", err)
	}
	return &sub, nil
}
