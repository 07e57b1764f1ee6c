package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/shopspring/decimal"
	"github.com/venturashop/checkout/internal/domain/models"
	apperrors "github.com/venturashop/checkout/internal/errors"
	"io"
	"net/http"
	"time"
)

const (
	flutterwaveTimeout      = 10 * time.Second
	flutterwaveSuccessState = "successful"
)

type FlutterwaveAdapter struct {
	secretKey string
	apiBase   string
	client    *http.Client
}

func NewFlutterwaveAdapter(secretKey, apiBase string) *FlutterwaveAdapter {
	return &FlutterwaveAdapter{
		secretKey: secretKey,
		apiBase:   apiBase,
		client:    &http.Client{Timeout: flutterwaveTimeout},
	}
}

func (a *FlutterwaveAdapter) Name() string {
	return models.GatewayFlutterwave
}

type flutterwaveCustomer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber"`
}

type flutterwaveCustomizations struct {
	Title string `json:"title"`
}

type flutterwavePaymentRequest struct {
	TxRef          string                    `json:"tx_ref"`
	Amount         string                    `json:"amount"`
	Currency       string                    `json:"currency"`
	RedirectURL    string                    `json:"redirect_url"`
	Customer       flutterwaveCustomer       `json:"customer"`
	Customizations flutterwaveCustomizations `json:"customizations"`
}

// Initiate posts the payment to Flutterwave and returns their hosted payment
// link plus the raw response body for the client.
func (a *FlutterwaveAdapter) Initiate(ctx context.Context, req InitiationRequest) (*Handle, error) {
	payload := flutterwavePaymentRequest{
		TxRef:       req.Reference,
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		RedirectURL: req.ReturnURL,
		Customer: flutterwaveCustomer{
			Email:       req.Customer.Email,
			Name:        req.Customer.Name,
			PhoneNumber: req.Customer.Phone,
		},
		Customizations: flutterwaveCustomizations{Title: "Ventura Payment"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiBase+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewGatewayUnreachableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		details, _ := io.ReadAll(resp.Body)
		return nil, apperrors.NewGatewayRejectedError(string(details))
	}

	raw := make(map[string]interface{})
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, apperrors.NewGatewayRejectedError("unparseable payment response")
	}

	handle := &Handle{Raw: raw}
	if data, ok := raw["data"].(map[string]interface{}); ok {
		if link, ok := data["link"].(string); ok {
			handle.ApprovalURL = link
		}
	}

	return handle, nil
}

type flutterwaveVerifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status   string      `json:"status"`
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
		TxRef    string      `json:"tx_ref"`
	} `json:"data"`
}

// Verify re-checks the callback against Flutterwave's transaction record. The
// callback parameters alone are never trusted.
func (a *FlutterwaveAdapter) Verify(ctx context.Context, cb CallbackData) (*SettlementOutcome, error) {
	outcome := &SettlementOutcome{Reference: cb.Reference}

	// The redirect said the payment did not go through; nothing to verify.
	if cb.Status != flutterwaveSuccessState {
		return outcome, nil
	}

	url := fmt.Sprintf("%s/v3/transactions/%s/verify", a.apiBase, cb.TransactionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.secretKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewGatewayUnreachableError(err)
	}
	defer resp.Body.Close()

	// A provider error here is not a payment failure; surface it so the
	// transaction stays pending and the callback can be retried.
	if resp.StatusCode != http.StatusOK {
		details, _ := io.ReadAll(resp.Body)
		return nil, apperrors.NewGatewayRejectedError(string(details))
	}

	var vr flutterwaveVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, apperrors.NewGatewayRejectedError("unparseable verification response")
	}

	if vr.Status != "success" || vr.Data.Status != flutterwaveSuccessState {
		return outcome, nil
	}

	// The verified record must be for this transaction. A transaction_id
	// replayed from some other settled payment fails here no matter how well
	// its amount lines up.
	if vr.Data.TxRef != cb.Reference {
		return nil, apperrors.NewVerificationMismatchError("verified record is for a different transaction reference")
	}

	amount, err := decimal.NewFromString(vr.Data.Amount.String())
	if err != nil {
		return nil, apperrors.NewGatewayRejectedError("unparseable amount in verification response")
	}

	outcome.Success = true
	outcome.Amount = amount
	outcome.Currency = vr.Data.Currency
	return outcome, nil
}
