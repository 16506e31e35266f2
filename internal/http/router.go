package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"solpay/internal/config"
	"solpay/internal/http/handlers"
	middlewarex "solpay/internal/http/middleware"
	"solpay/internal/price"
	paymentsvc "solpay/internal/services/payment"
	subsvc "solpay/internal/services/subscription"
)

// RouterDependencies holds all dependencies for the HTTP router.
type RouterDependencies struct {
	Config        config.Cfg
	Payments      *paymentsvc.Service
	Subscriptions *subsvc.Service
	Prices        *price.Client
	Redis         *redis.Client
}

func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"network": deps.Config.Solana.Network,
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", handlers.CreatePayment(deps.Payments))
		r.Post("/submit", handlers.SubmitPayment(deps.Payments))
		r.Post("/process", handlers.ProcessPayment(deps.Payments))
		r.Post("/{paymentID}/confirm", handlers.ConfirmPayment(deps.Payments))
		r.Get("/", handlers.GetPayments(deps.Payments))
		r.Put("/", handlers.UpdatePayment(deps.Payments))
	})

	r.With(middlewarex.RateLimit(deps.Redis, deps.Config.Payments.RateLimitPerMin)).
		Post("/subscribe", handlers.Subscribe(deps.Subscriptions))

	r.Get("/prices", handlers.GetPrice(deps.Prices))

	return r
}
