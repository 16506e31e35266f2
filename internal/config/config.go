package config

import (
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port string }

type DBCfg struct{ DSN string }

type RedisCfg struct{ Addr string }

type SolanaCfg struct {
	RPCURL     string
	Network    string
	Commitment string
	// MerchantWallet receives every payment.
	MerchantWallet solana.PublicKey
	USDCMint       solana.PublicKey
	BARKMint       solana.PublicKey
	// SecretKey is the optional base58 private key for the direct-signer
	// path. Empty means the server can only submit pre-signed transactions.
	SecretKey string
}

type PricesCfg struct{ BaseURL string }

type PaymentsCfg struct {
	MerchantFeePercentage float64
	RateLimitPerMin       int
}

type Cfg struct {
	App      AppCfg
	DB       DBCfg
	Redis    RedisCfg
	Solana   SolanaCfg
	Prices   PricesCfg
	Payments PaymentsCfg
}

func Load() Cfg {
	// .env is optional; real deployments set process env directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "devnet")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("SOLANA_RPC_URL", "https://api.devnet.solana.com")
	viper.SetDefault("SOLANA_NETWORK", "devnet")
	viper.SetDefault("SOLANA_COMMITMENT", "confirmed")
	viper.SetDefault("USDC_MINT_ADDRESS", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	viper.SetDefault("BARK_MINT_ADDRESS", "2NTvEssJ2i998V2cMGT4Fy3JhyFnAzHFonDo9dbAkVrg")
	viper.SetDefault("PRICES_API_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("MERCHANT_FEE_PERCENTAGE", 2.5)
	viper.SetDefault("RATE_LIMIT_PER_MIN", 60)

	cfg := Cfg{
		App: AppCfg{
			Env:  viper.GetString("APP_ENV"),
			Port: viper.GetString("APP_PORT"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		Solana: SolanaCfg{
			RPCURL:     viper.GetString("SOLANA_RPC_URL"),
			Network:    viper.GetString("SOLANA_NETWORK"),
			Commitment: viper.GetString("SOLANA_COMMITMENT"),
			SecretKey:  strings.TrimSpace(viper.GetString("SECRET_KEY")),
		},
		Prices: PricesCfg{BaseURL: viper.GetString("PRICES_API_URL")},
		Payments: PaymentsCfg{
			MerchantFeePercentage: viper.GetFloat64("MERCHANT_FEE_PERCENTAGE"),
			RateLimitPerMin:       viper.GetInt("RATE_LIMIT_PER_MIN"),
		},
	}

	// Fail fast on required settings.
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}

	merchant := viper.GetString("MERCHANT_WALLET_ADDRESS")
	if merchant == "" {
		log.Fatal().Msg("MERCHANT_WALLET_ADDRESS is required")
	}
	var err error
	if cfg.Solana.MerchantWallet, err = solana.PublicKeyFromBase58(merchant); err != nil {
		log.Fatal().Err(err).Msg("MERCHANT_WALLET_ADDRESS is not a valid address")
	}
	if cfg.Solana.USDCMint, err = solana.PublicKeyFromBase58(viper.GetString("USDC_MINT_ADDRESS")); err != nil {
		log.Fatal().Err(err).Msg("USDC_MINT_ADDRESS is not a valid mint")
	}
	if cfg.Solana.BARKMint, err = solana.PublicKeyFromBase58(viper.GetString("BARK_MINT_ADDRESS")); err != nil {
		log.Fatal().Err(err).Msg("BARK_MINT_ADDRESS is not a valid mint")
	}
	if cfg.Solana.SecretKey != "" {
		if _, err := solana.PrivateKeyFromBase58(cfg.Solana.SecretKey); err != nil {
			log.Fatal().Err(err).Msg("SECRET_KEY is not a valid base58 private key")
		}
	}

	return cfg
}
