// Package price fetches USD token prices from the external price API
// (CoinGecko-compatible), with a short redis cache in front.
package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"solpay/internal/core"
	"solpay/internal/domain/payment"
)

// barkUSD is pinned: BARK is not listed on the price API.
const barkUSD = 0.000001

const cacheTTL = 60 * time.Second

type Client struct {
	http    *http.Client
	baseURL string
	cache   *redis.Client
}

// New builds a price client. cache may be nil to disable caching.
func New(baseURL string, cache *redis.Client) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		cache:   cache,
	}
}

func apiID(token payment.Token) string {
	switch token {
	case payment.TokenSOL:
		return "solana"
	case payment.TokenUSDC:
		return "usd-coin"
	default:
		return ""
	}
}

// Get returns the token's USD price.
func (c *Client) Get(ctx context.Context, token payment.Token) (float64, error) {
	if token == payment.TokenBARK {
		return barkUSD, nil
	}
	id := apiID(token)
	if id == "" {
		return 0, core.E(core.KindUnsupportedToken, fmt.Sprintf("no price source for token %s", token))
	}

	if c.cache != nil {
		if v, err := c.cache.Get(ctx, "price:"+id).Result(); err == nil {
			if p, err := strconv.ParseFloat(v, 64); err == nil {
				return p, nil
			}
		}
	}

	var out float64
	op := func() error {
		p, err := c.fetch(ctx, id)
		if err != nil {
			return err
		}
		out = p
		return nil
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return 0, core.E(core.KindInternal, "price lookup failed", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, "price:"+id, strconv.FormatFloat(out, 'f', -1, 64), cacheTTL).Err(); err != nil {
			log.Warn().Err(err).Str("token", string(token)).Msg("price cache write failed")
		}
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, id string) (float64, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("price api: %s; body=%s", res.Status, string(b))
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return 0, err
	}
	p, ok := body[id]["usd"]
	if !ok {
		return 0, fmt.Errorf("price api: no usd quote for %s", id)
	}
	return p, nil
}
