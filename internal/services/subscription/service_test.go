package subscription_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solpay/internal/core"
	subsvc "solpay/internal/services/subscription"
	"solpay/internal/store/memory"
)

func TestSubscribe(t *testing.T) {
	svc := subsvc.NewService(memory.NewSubscriptionStore())
	ctx := context.Background()

	res, err := svc.Subscribe(ctx, "Reader@Example.com")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "reader@example.com", res.Subscription.Email)

	// same address again, different casing
	res, err = svc.Subscribe(ctx, "  reader@example.COM ")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "reader@example.com", res.Subscription.Email)
}

func TestSubscribeRejectsBadEmail(t *testing.T) {
	svc := subsvc.NewService(memory.NewSubscriptionStore())
	ctx := context.Background()

	for _, email := range []string{"", "not-an-email", "a@", "with spaces@example.com"} {
		_, err := svc.Subscribe(ctx, email)
		require.Error(t, err, email)
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	}
}
