package subscription

import (
	"context"

	"github.com/rs/zerolog/log"

	"solpay/internal/core"
	"solpay/internal/domain/subscription"
	"solpay/internal/store/repositories"
)

type Service struct {
	store repositories.SubscriptionStore
}

func NewService(store repositories.SubscriptionStore) *Service {
	return &Service{store: store}
}

// Result distinguishes a fresh signup from an already-subscribed email so
// the handler can answer 201 vs 200.
type Result struct {
	Subscription *subscription.Subscription
	Created      bool
}

func (s *Service) Subscribe(ctx context.Context, email string) (*Result, error) {
	sub, err := subscription.New(email)
	if err != nil {
		return nil, core.E(core.KindValidation, err.Error(), err)
	}

	existing, err := s.store.FindByEmail(ctx, sub.Email)
	if err == nil {
		return &Result{Subscription: existing, Created: false}, nil
	}
	if !core.IsKind(err, core.KindNotFound) {
		return nil, err
	}

	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}
	log.Info().Str("email", sub.Email).Msg("new subscription")
	return &Result{Subscription: sub, Created: true}, nil
}
