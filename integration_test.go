package main

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"

	"solpay/internal/config"
	httpx "solpay/internal/http"
	"solpay/internal/price"
	paymentsvc "solpay/internal/services/payment"
	subsvc "solpay/internal/services/subscription"
	"solpay/internal/store/memory"
)

// TestWiring builds the full dependency graph the way cmd/api does, against
// in-memory stores, to catch constructor drift early.
func TestWiring(t *testing.T) {
	cfg := config.Cfg{
		App: config.AppCfg{
			Env:  "test",
			Port: "8080",
		},
		Solana: config.SolanaCfg{
			Network:        "devnet",
			MerchantWallet: solana.NewWallet().PublicKey(),
			USDCMint:       solana.NewWallet().PublicKey(),
			BARKMint:       solana.NewWallet().PublicKey(),
		},
		Payments: config.PaymentsCfg{MerchantFeePercentage: 2, RateLimitPerMin: 5},
	}

	payments := memory.NewPaymentStore()
	subscriptions := memory.NewSubscriptionStore()

	paySvc := paymentsvc.NewService(nil, payments, cfg)
	if paySvc == nil {
		t.Fatal("failed to create payment service")
	}
	subSvc := subsvc.NewService(subscriptions)
	if subSvc == nil {
		t.Fatal("failed to create subscription service")
	}
	prices := price.New("https://api.coingecko.com/api/v3", nil)
	if prices == nil {
		t.Fatal("failed to create price client")
	}

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:        cfg,
		Payments:      paySvc,
		Subscriptions: subSvc,
		Prices:        prices,
	})
	if r == nil {
		t.Fatal("failed to build router")
	}

	// the subscription path works end to end without external services
	res, err := subSvc.Subscribe(context.Background(), "wiring@example.com")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	if !res.Created {
		t.Fatal("expected a fresh subscription")
	}
}
