package gateway

import (
	"context"
	"github.com/shopspring/decimal"
)

type Customer struct {
	Email string
	Name  string
	Phone string
}

// InitiationRequest is everything a provider needs to start a payment. The
// reference is ours, never the provider's; it rides along so the callback can
// be correlated without trusting gateway-assigned identifiers.
type InitiationRequest struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Customer  Customer
	ReturnURL string
	CancelURL string
	Narrative string
}

// Handle is the redirect/approval artifact returned to the client after
// initiation. Raw carries the provider payload through untouched.
type Handle struct {
	ApprovalURL string
	Raw         map[string]interface{}
}

// CallbackData is the normalized set of parameters the two providers send
// back. Flutterwave fills Status and TransactionID, PayPal fills PaymentID and
// PayerID.
type CallbackData struct {
	Reference     string
	Status        string
	TransactionID string
	PaymentID     string
	PayerID       string
}

// SettlementOutcome is a verified callback. Amount and Currency come from the
// provider's own record, not from the callback parameters, and are compared
// against the ledger snapshot before settlement is accepted.
type SettlementOutcome struct {
	Reference string
	Success   bool
	Amount    decimal.Decimal
	Currency  string
}

// Adapter normalizes a provider into initiate and verify. Transport failures
// surface as GatewayUnreachableError, provider rejections as
// GatewayRejectedError; no raw provider error leaves this layer.
type Adapter interface {
	Name() string
	Initiate(ctx context.Context, req InitiationRequest) (*Handle, error)
	Verify(ctx context.Context, cb CallbackData) (*SettlementOutcome, error)
}
