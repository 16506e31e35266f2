package handlers

import (
	"encoding/json"
	"net/http"

	"solpay/internal/core"
	subsvc "solpay/internal/services/subscription"
)

type subscribeReq struct {
	Email string `json:"email"`
}

func Subscribe(svc *subsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, core.E(core.KindValidation, "bad json", err))
			return
		}
		res, err := svc.Subscribe(r.Context(), req.Email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !res.Created {
			writeJSON(w, http.StatusOK, map[string]any{"message": "Email already subscribed"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Subscribed successfully",
			"data":    res.Subscription,
		})
	}
}
