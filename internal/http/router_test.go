package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solpay/internal/config"
	httpx "solpay/internal/http"
	"solpay/internal/ledger"
	"solpay/internal/price"
	paymentsvc "solpay/internal/services/payment"
	subsvc "solpay/internal/services/subscription"
	"solpay/internal/store/memory"
)

const testSignature = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

// stubLedger answers every call with canned success so the HTTP surface can
// be exercised without a network.
type stubLedger struct{}

func (stubLedger) BuildNativeTransfer(context.Context, solana.PublicKey, solana.PublicKey, uint64) (*ledger.UnsignedTransaction, error) {
	return &ledger.UnsignedTransaction{Base64: "dW5zaWduZWQ=", Blockhash: "hash"}, nil
}

func (stubLedger) BuildTokenTransfer(context.Context, solana.PublicKey, solana.PublicKey, solana.PublicKey, solana.PublicKey, uint8, uint64) (*ledger.UnsignedTransaction, error) {
	return &ledger.UnsignedTransaction{Base64: "dW5zaWduZWQ=", Blockhash: "hash"}, nil
}

func (stubLedger) SubmitSigned(context.Context, string) (string, error) {
	return testSignature, nil
}

func (stubLedger) SubmitNativeTransfer(context.Context, solana.PublicKey, uint64) (string, error) {
	return testSignature, nil
}

func (stubLedger) SubmitTokenTransfer(context.Context, solana.PublicKey, solana.PublicKey, solana.PublicKey, uint8, uint64) (string, error) {
	return testSignature, nil
}

func (stubLedger) ResolveTokenAccount(context.Context, solana.PublicKey, solana.PublicKey) (solana.PublicKey, error) {
	return solana.NewWallet().PublicKey(), nil
}

func (stubLedger) ConfirmTransaction(context.Context, string) ledger.ConfirmationStatus {
	return ledger.ConfirmationConfirmed
}

func (stubLedger) SignerKey() (solana.PublicKey, bool) {
	return solana.PublicKey{}, false
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Cfg{
		Solana: config.SolanaCfg{
			Network:        "devnet",
			MerchantWallet: solana.NewWallet().PublicKey(),
			USDCMint:       solana.NewWallet().PublicKey(),
			BARKMint:       solana.NewWallet().PublicKey(),
		},
		Payments: config.PaymentsCfg{MerchantFeePercentage: 2, RateLimitPerMin: 100},
	}
	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:        cfg,
		Payments:      paymentsvc.NewService(stubLedger{}, memory.NewPaymentStore(), cfg),
		Subscriptions: subsvc.NewService(memory.NewSubscriptionStore()),
		Prices:        price.New("http://127.0.0.1:0", nil),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer res.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	return res, decoded
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]any) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	return res, decoded
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	res, body := getJSON(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "devnet", body["network"])
}

func TestPaymentHandshake(t *testing.T) {
	srv := newTestServer(t)
	wallet := solana.NewWallet().PublicKey().String()

	res, body := postJSON(t, srv.URL+"/payments",
		fmt.Sprintf(`{"token":"SOL","amount":1.5,"userWallet":"%s","paymentMethod":"solana"}`, wallet))
	require.Equal(t, http.StatusCreated, res.StatusCode)

	pay := body["payment"].(map[string]any)
	id := pay["id"].(string)
	assert.True(t, strings.HasPrefix(id, "pay_"))
	assert.Equal(t, "pending", pay["status"])
	tx := body["transaction"].(map[string]any)
	assert.NotEmpty(t, tx["transaction"])

	res, body = postJSON(t, srv.URL+"/payments/submit",
		fmt.Sprintf(`{"paymentId":"%s","signedTransaction":"c2lnbmVk"}`, id))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, testSignature, body["transactionSignature"])

	res, body = postJSON(t, srv.URL+"/payments/"+id+"/confirm", `{}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	pay = body["payment"].(map[string]any)
	assert.Equal(t, "success", pay["status"])
	assert.Equal(t, "confirmed", pay["transactionStatus"])

	res, body = getJSON(t, srv.URL+"/payments?paymentId="+id)
	require.Equal(t, http.StatusOK, res.StatusCode)
	pay = body["payment"].(map[string]any)
	assert.Equal(t, testSignature, pay["transactionId"])

	res, body = getJSON(t, srv.URL+"/payments?wallet="+wallet)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Len(t, body["data"].([]any), 1)
}

func TestCreatePaymentRejections(t *testing.T) {
	srv := newTestServer(t)
	wallet := solana.NewWallet().PublicKey().String()

	res, body := postJSON(t, srv.URL+"/payments",
		fmt.Sprintf(`{"token":"ETH","amount":1,"userWallet":"%s"}`, wallet))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "unsupported token type", body["message"])

	res, body = postJSON(t, srv.URL+"/payments",
		fmt.Sprintf(`{"token":"SOL","amount":-5,"userWallet":"%s"}`, wallet))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "missing or invalid request fields", body["message"])

	res, _ = postJSON(t, srv.URL+"/payments", `not json`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestProcessWithoutSignerFails(t *testing.T) {
	srv := newTestServer(t)
	wallet := solana.NewWallet().PublicKey().String()

	res, body := postJSON(t, srv.URL+"/payments/process",
		fmt.Sprintf(`{"token":"SOL","amount":1,"userWallet":"%s"}`, wallet))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "payment processing failed", body["message"])
}

func TestGetPaymentsRequiresQuery(t *testing.T) {
	srv := newTestServer(t)
	res, _ := getJSON(t, srv.URL+"/payments")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, body := getJSON(t, srv.URL+"/payments?paymentId=pay_unknown")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "resource not found", body["message"])
}

func TestUpdatePaymentByReference(t *testing.T) {
	srv := newTestServer(t)
	wallet := solana.NewWallet().PublicKey().String()

	_, body := postJSON(t, srv.URL+"/payments",
		fmt.Sprintf(`{"token":"SOL","amount":1,"userWallet":"%s"}`, wallet))
	id := body["payment"].(map[string]any)["id"].(string)
	_, _ = postJSON(t, srv.URL+"/payments/submit",
		fmt.Sprintf(`{"paymentId":"%s","signedTransaction":"c2lnbmVk"}`, id))

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/payments",
		bytes.NewBufferString(fmt.Sprintf(`{"transactionId":"%s","paymentStatus":"success","transactionStatus":"finalized"}`, testSignature)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&decoded))
	require.Equal(t, http.StatusOK, res.StatusCode)

	updated := decoded["updatedPayment"].(map[string]any)
	assert.Equal(t, "success", updated["status"])
	assert.Equal(t, "finalized", updated["transactionStatus"])
}

func TestSubscribe(t *testing.T) {
	srv := newTestServer(t)

	res, body := postJSON(t, srv.URL+"/subscribe", `{"email":"reader@example.com"}`)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "Subscribed successfully", body["message"])

	res, body = postJSON(t, srv.URL+"/subscribe", `{"email":"READER@example.com"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Email already subscribed", body["message"])

	res, body = postJSON(t, srv.URL+"/subscribe", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "missing or invalid request fields", body["message"])
}

func TestGetPriceBark(t *testing.T) {
	srv := newTestServer(t)

	res, body := getJSON(t, srv.URL+"/prices?token=BARK")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.InDelta(t, 0.000001, body["price"].(float64), 1e-12)

	res, _ = getJSON(t, srv.URL+"/prices?token=DOGE")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
