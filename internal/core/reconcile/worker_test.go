package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solpay/internal/domain/payment"
	"solpay/internal/ledger"
	"solpay/internal/store/memory"
)

type fakeConfirmer struct {
	verdicts map[string]ledger.ConfirmationStatus
	calls    []string
}

func (f *fakeConfirmer) ConfirmTransaction(_ context.Context, signature string) ledger.ConfirmationStatus {
	f.calls = append(f.calls, signature)
	if v, ok := f.verdicts[signature]; ok {
		return v
	}
	return ledger.ConfirmationFailed
}

func seedPayment(t *testing.T, store *memory.PaymentStore, signature string, age time.Duration) *payment.Payment {
	t.Helper()
	p, err := payment.New(payment.TokenSOL, 1, "wallet", "solana")
	require.NoError(t, err)
	p.Signature = signature
	p.CreatedAt = time.Now().UTC().Add(-age)
	p.UpdatedAt = p.CreatedAt
	require.NoError(t, store.Create(context.Background(), p))
	return p
}

func TestTickFinalizesStalePayments(t *testing.T) {
	store := memory.NewPaymentStore()
	fc := &fakeConfirmer{verdicts: map[string]ledger.ConfirmationStatus{
		"sig-good": ledger.ConfirmationConfirmed,
		"sig-bad":  ledger.ConfirmationFailed,
	}}

	confirmed := seedPayment(t, store, "sig-good", time.Hour)
	dropped := seedPayment(t, store, "sig-bad", time.Hour)
	fresh := seedPayment(t, store, "sig-fresh", time.Second)
	unsubmitted := seedPayment(t, store, "", time.Hour)

	w := NewWorker(store, fc)
	w.staleAfter = time.Minute
	w.tick(context.Background())

	assert.ElementsMatch(t, []string{"sig-good", "sig-bad"}, fc.calls)

	got, err := store.FindByID(context.Background(), confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSuccess, got.Status)
	assert.Equal(t, "confirmed", got.TxStatus)

	got, err = store.FindByID(context.Background(), dropped.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusFailed, got.Status)
	assert.NotEmpty(t, got.ErrorDetail)

	for _, p := range []*payment.Payment{fresh, unsubmitted} {
		got, err = store.FindByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, got.Status)
	}
}

func TestTickHonorsBatchLimit(t *testing.T) {
	store := memory.NewPaymentStore()
	fc := &fakeConfirmer{}
	for i := 0; i < 5; i++ {
		seedPayment(t, store, "sig", time.Hour)
	}

	w := NewWorker(store, fc)
	w.staleAfter = time.Minute
	w.batch = 2
	w.tick(context.Background())

	assert.Len(t, fc.calls, 2)
}
