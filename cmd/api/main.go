package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"solpay/internal/config"
	"solpay/internal/core/reconcile"
	httpx "solpay/internal/http"
	"solpay/internal/ledger"
	"solpay/internal/price"
	paymentsvc "solpay/internal/services/payment"
	subsvc "solpay/internal/services/subscription"
	"solpay/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := postgres.MustOpen(ctx, cfg.DB.DSN)
	defer pool.Close()
	payments := postgres.NewPaymentStore(pool)
	subscriptions := postgres.NewSubscriptionStore(pool)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
	}

	chain, err := ledger.New(cfg.Solana.RPCURL, cfg.Solana.Commitment, cfg.Solana.SecretKey)
	if err != nil {
		log.Fatal().Err(err).Msg("ledger client init failed")
	}

	paySvc := paymentsvc.NewService(chain, payments, cfg)
	subSvc := subsvc.NewService(subscriptions)
	prices := price.New(cfg.Prices.BaseURL, rdb)

	worker := reconcile.NewWorker(payments, chain)
	go worker.Run(ctx)

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:        cfg,
		Payments:      paySvc,
		Subscriptions: subSvc,
		Prices:        prices,
		Redis:         rdb,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("network", cfg.Solana.Network).
			Msgf("solpay API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
