package handlers

import (
	"net/http"

	"solpay/internal/core"
	"solpay/internal/domain/payment"
	"solpay/internal/price"
)

func GetPrice(pc *price.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := payment.ParseToken(r.URL.Query().Get("token"))
		if err != nil {
			writeError(w, r, core.E(core.KindUnsupportedToken, err.Error(), err))
			return
		}
		p, err := pc.Get(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": token,
			"price": p,
		})
	}
}
