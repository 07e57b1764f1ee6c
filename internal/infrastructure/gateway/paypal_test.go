package gateway

import (
	"context"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/venturashop/checkout/internal/errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func paypalStub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "ORDER-1",
			"status": "CREATED",
			"links": [
				{"href": "https://api.sandbox.paypal.com/v2/checkout/orders/ORDER-1", "rel": "self", "method": "GET"},
				{"href": "https://www.sandbox.paypal.com/checkoutnow?token=ORDER-1", "rel": "approve", "method": "GET"}
			]
		}`))
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "ORDER-1",
			"status": "COMPLETED",
			"purchase_units": [
				{"reference_id": "ref-1", "amount": {"currency_code": "USD", "value": "29.00"}}
			]
		}`))
	})
	return httptest.NewServer(mux)
}

func newStubbedPaypalAdapter(t *testing.T, serverURL string) *PaypalAdapter {
	adapter, err := NewPaypalAdapter("sandbox", "client-id", "client-secret")
	require.NoError(t, err)
	adapter.client.APIBase = serverURL
	return adapter
}

func TestPaypalInitiate(t *testing.T) {
	server := paypalStub(t)
	defer server.Close()

	adapter := newStubbedPaypalAdapter(t, server.URL)

	req := testInitiationRequest()
	req.Currency = "USD"
	handle, err := adapter.Initiate(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "https://www.sandbox.paypal.com/checkoutnow?token=ORDER-1", handle.ApprovalURL)
	assert.Equal(t, "ORDER-1", handle.Raw["order_id"])
}

func TestPaypalVerify(t *testing.T) {
	t.Run("completed order settles with the recorded amount", func(t *testing.T) {
		server := paypalStub(t)
		defer server.Close()

		adapter := newStubbedPaypalAdapter(t, server.URL)

		outcome, err := adapter.Verify(context.Background(), CallbackData{
			Reference: "ref-1",
			PaymentID: "ORDER-1",
			PayerID:   "PAYER-1",
		})

		require.NoError(t, err)
		assert.True(t, outcome.Success)
		assert.True(t, outcome.Amount.Equal(decimal.RequireFromString("29.00")), "got %s", outcome.Amount)
		assert.Equal(t, "USD", outcome.Currency)
	})

	t.Run("order for a different reference is rejected", func(t *testing.T) {
		server := paypalStub(t)
		defer server.Close()

		adapter := newStubbedPaypalAdapter(t, server.URL)

		_, err := adapter.Verify(context.Background(), CallbackData{
			Reference: "ref-2",
			PaymentID: "ORDER-1",
			PayerID:   "PAYER-1",
		})

		var mismatch *apperrors.VerificationMismatchError
		assert.True(t, apperrors.As(err, &mismatch))
	})

	t.Run("missing payment details are not a success", func(t *testing.T) {
		server := paypalStub(t)
		defer server.Close()

		adapter := newStubbedPaypalAdapter(t, server.URL)

		outcome, err := adapter.Verify(context.Background(), CallbackData{Reference: "ref-1"})

		require.NoError(t, err)
		assert.False(t, outcome.Success)
	})
}
