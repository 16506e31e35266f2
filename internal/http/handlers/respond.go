package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"solpay/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to a status code and a fixed safe message.
// The raw cause is logged, never returned to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := kindStatus(core.KindOf(err))
	if status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": core.SafeMessage(err),
	})
}

func kindStatus(k core.Kind) int {
	switch k {
	case core.KindValidation, core.KindUnsupportedToken:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindConflict:
		return http.StatusConflict
	case core.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
