// Package reconcile sweeps submitted payments that never got a
// confirmation check, so a crash between submission and confirmation cannot
// leave records pending forever.
package reconcile

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"solpay/internal/domain/payment"
	"solpay/internal/ledger"
	"solpay/internal/store/repositories"
)

// Confirmer is the single ledger call the sweep needs.
type Confirmer interface {
	ConfirmTransaction(ctx context.Context, signature string) ledger.ConfirmationStatus
}

type Worker struct {
	store      repositories.PaymentStore
	confirmer  Confirmer
	pollEvery  time.Duration
	staleAfter time.Duration
	batch      int
}

func NewWorker(store repositories.PaymentStore, confirmer Confirmer) *Worker {
	return &Worker{
		store:      store,
		confirmer:  confirmer,
		pollEvery:  30 * time.Second,
		staleAfter: 2 * time.Minute,
		batch:      50,
	}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().Msg("reconcile worker: started")
	t := time.NewTicker(w.pollEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reconcile worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.staleAfter)

	var stale []*payment.Payment
	fetch := func() error {
		var err error
		stale, err = w.store.FindStalePending(ctx, cutoff, w.batch)
		return err
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(fetch, bo); err != nil {
		log.Error().Err(err).Msg("reconcile worker: fetching stale payments failed")
		return
	}

	for _, p := range stale {
		w.finalize(ctx, p)
	}
}

func (w *Worker) finalize(ctx context.Context, p *payment.Payment) {
	verdict := w.confirmer.ConfirmTransaction(ctx, p.Signature)

	status := payment.StatusFailed
	upd := repositories.PaymentUpdate{}
	if verdict == ledger.ConfirmationConfirmed {
		status = payment.StatusSuccess
	} else {
		detail := "transaction not confirmed on ledger"
		upd.ErrorDetail = &detail
	}
	upd.Status = &status
	txStatus := string(verdict)
	upd.TxStatus = &txStatus

	if _, err := w.store.Update(ctx, p.ID, upd); err != nil {
		log.Error().Err(err).Str("payment_id", p.ID).Msg("reconcile worker: update failed")
		return
	}
	log.Info().
		Str("payment_id", p.ID).
		Str("signature", p.Signature).
		Str("status", string(status)).
		Msg("reconcile worker: payment finalized")
}
