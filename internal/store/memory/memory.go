// Package memory holds in-memory store implementations used by tests and
// local development, mirroring the Postgres stores' contracts.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solpay/internal/core"
	"solpay/internal/domain/payment"
	"solpay/internal/domain/subscription"
	"solpay/internal/store/repositories"
)

type PaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
	order    []string
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{payments: make(map[string]*payment.Payment)}
}

var _ repositories.PaymentStore = (*PaymentStore)(nil)

func (s *PaymentStore) Create(_ context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.payments[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *PaymentStore) FindByID(_ context.Context, id string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, core.E(core.KindNotFound, "payment not found")
	}
	cp := *p
	return &cp, nil
}

func (s *PaymentStore) FindByWallet(_ context.Context, wallet string) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*payment.Payment
	for _, id := range s.order {
		if p := s.payments[id]; p.Wallet == wallet {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PaymentStore) FindBySignature(_ context.Context, signature string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.lookupBySignature(signature)
	if p == nil {
		return nil, core.E(core.KindNotFound, "payment not found")
	}
	cp := *p
	return &cp, nil
}

func (s *PaymentStore) Update(_ context.Context, id string, upd repositories.PaymentUpdate) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, core.E(core.KindNotFound, "payment not found")
	}
	apply(p, upd)
	cp := *p
	return &cp, nil
}

func (s *PaymentStore) UpdateBySignature(_ context.Context, signature string, upd repositories.PaymentUpdate) (*payment.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookupBySignature(signature)
	if p == nil {
		return nil, core.E(core.KindNotFound, "payment not found")
	}
	apply(p, upd)
	cp := *p
	return &cp, nil
}

func (s *PaymentStore) FindStalePending(_ context.Context, updatedBefore time.Time, limit int) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*payment.Payment
	for _, id := range s.order {
		p := s.payments[id]
		if p.Status == payment.StatusPending && p.Signature != "" && p.UpdatedAt.Before(updatedBefore) {
			cp := *p
			out = append(out, &cp)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *PaymentStore) lookupBySignature(signature string) *payment.Payment {
	if signature == "" {
		return nil
	}
	var newest *payment.Payment
	for _, p := range s.payments {
		if p.Signature != signature {
			continue
		}
		if newest == nil || p.CreatedAt.After(newest.CreatedAt) {
			newest = p
		}
	}
	return newest
}

func apply(p *payment.Payment, upd repositories.PaymentUpdate) {
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Signature != nil {
		p.Signature = *upd.Signature
	}
	if upd.TxStatus != nil {
		p.TxStatus = *upd.TxStatus
	}
	if upd.ErrorDetail != nil {
		p.ErrorDetail = *upd.ErrorDetail
	}
	p.UpdatedAt = time.Now().UTC()
}

type SubscriptionStore struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[string]*subscription.Subscription
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[string]*subscription.Subscription)}
}

var _ repositories.SubscriptionStore = (*SubscriptionStore)(nil)

func (s *SubscriptionStore) Create(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.Email]; ok {
		return core.E(core.KindConflict, "email already subscribed")
	}
	s.nextID++
	sub.ID = s.nextID
	cp := *sub
	s.subs[sub.Email] = &cp
	return nil
}

func (s *SubscriptionStore) FindByEmail(_ context.Context, email string) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[email]
	if !ok {
		return nil, core.E(core.KindNotFound, "subscription not found")
	}
	cp := *sub
	return &cp, nil
}
