package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"solpay/internal/core"
	paymentsvc "solpay/internal/services/payment"
)

// CreatePayment starts the signing handshake: it records a pending payment
// and returns the unsigned transfer for the payer's wallet.
func CreatePayment(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentsvc.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, core.E(core.KindValidation, "bad json", err))
			return
		}
		intent, err := svc.Create(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, intent)
	}
}

type submitReq struct {
	PaymentID string `json:"paymentId"`
	SignedTx  string `json:"signedTransaction"`
}

// SubmitPayment accepts the payer-signed artifact and relays it to the
// network.
func SubmitPayment(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, core.E(core.KindValidation, "bad json", err))
			return
		}
		if req.PaymentID == "" {
			writeError(w, r, core.E(core.KindValidation, "paymentId is required"))
			return
		}
		p, err := svc.Submit(r.Context(), req.PaymentID, req.SignedTx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":              true,
			"transactionSignature": p.Signature,
			"payment":              p,
		})
	}
}

// ProcessPayment is the direct path for operator-held keys: one call from
// request to submitted transfer.
func ProcessPayment(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentsvc.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, core.E(core.KindValidation, "bad json", err))
			return
		}
		p, err := svc.Process(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":              true,
			"transactionSignature": p.Signature,
			"message":              "Payment successfully processed",
		})
	}
}

// GetPayments serves lookup by paymentId or listing by wallet.
func GetPayments(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("paymentId"); id != "" {
			p, err := svc.Get(r.Context(), id)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"payment": p})
			return
		}
		if wallet := r.URL.Query().Get("wallet"); wallet != "" {
			list, err := svc.ListByWallet(r.Context(), wallet)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"data": list})
			return
		}
		writeError(w, r, core.E(core.KindValidation, "paymentId or wallet query parameter required"))
	}
}

// ConfirmPayment runs a one-shot confirmation check and finalizes the
// record.
func ConfirmPayment(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "paymentID")
		p, err := svc.Confirm(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payment": p})
	}
}

type updateReq struct {
	TransactionID string `json:"transactionId"`
	PaymentStatus string `json:"paymentStatus"`
	TxStatus      string `json:"transactionStatus"`
}

// UpdatePayment applies a client-reported status by transaction reference.
func UpdatePayment(svc *paymentsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, core.E(core.KindValidation, "bad json", err))
			return
		}
		p, err := svc.UpdateByReference(r.Context(), req.TransactionID, req.PaymentStatus, req.TxStatus)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":        "Payment status updated successfully",
			"updatedPayment": p,
		})
	}
}
