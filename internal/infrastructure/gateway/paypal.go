package gateway

import (
	"context"
	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
	"github.com/venturashop/checkout/internal/domain/models"
	apperrors "github.com/venturashop/checkout/internal/errors"
)

type PaypalAdapter struct {
	client *paypal.Client
}

func NewPaypalAdapter(mode, clientID, clientSecret string) (*PaypalAdapter, error) {
	apiBase := paypal.APIBaseSandBox
	if mode == "live" {
		apiBase = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(clientID, clientSecret, apiBase)
	if err != nil {
		return nil, err
	}

	return &PaypalAdapter{client: client}, nil
}

func (a *PaypalAdapter) Name() string {
	return models.GatewayPaypal
}

// Initiate creates a PayPal order for the cart total and returns the approve
// link the buyer is redirected to.
func (a *PaypalAdapter) Initiate(ctx context.Context, req InitiationRequest) (*Handle, error) {
	if _, err := a.client.GetAccessToken(ctx); err != nil {
		return nil, normalizePaypalError(err)
	}

	units := []paypal.PurchaseUnitRequest{
		{
			ReferenceID: req.Reference,
			Description: req.Narrative,
			Amount: &paypal.PurchaseUnitAmount{
				Currency: req.Currency,
				Value:    req.Amount.StringFixed(2),
			},
		},
	}

	appContext := &paypal.ApplicationContext{
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
	}

	order, err := a.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, appContext)
	if err != nil {
		return nil, normalizePaypalError(err)
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return &Handle{
				ApprovalURL: link.Href,
				Raw:         map[string]interface{}{"order_id": order.ID},
			}, nil
		}
	}

	return nil, apperrors.NewGatewayRejectedError("no approval link in order response")
}

// Verify looks the order up at PayPal by the id from the return URL. The
// settled amount and currency come from PayPal's record of the purchase unit.
func (a *PaypalAdapter) Verify(ctx context.Context, cb CallbackData) (*SettlementOutcome, error) {
	outcome := &SettlementOutcome{Reference: cb.Reference}

	if cb.PaymentID == "" || cb.PayerID == "" {
		return outcome, nil
	}

	if _, err := a.client.GetAccessToken(ctx); err != nil {
		return nil, normalizePaypalError(err)
	}

	order, err := a.client.GetOrder(ctx, cb.PaymentID)
	if err != nil {
		return nil, normalizePaypalError(err)
	}

	if len(order.PurchaseUnits) > 0 && order.PurchaseUnits[0].ReferenceID != cb.Reference {
		return nil, apperrors.NewVerificationMismatchError("order is for a different transaction reference")
	}

	if len(order.PurchaseUnits) > 0 && order.PurchaseUnits[0].Amount != nil {
		amount, err := decimal.NewFromString(order.PurchaseUnits[0].Amount.Value)
		if err != nil {
			return nil, apperrors.NewGatewayRejectedError("unparseable amount in order record")
		}
		outcome.Amount = amount
		outcome.Currency = order.PurchaseUnits[0].Amount.Currency
	}

	outcome.Success = order.Status == paypal.OrderStatusApproved || order.Status == paypal.OrderStatusCompleted
	return outcome, nil
}

func normalizePaypalError(err error) error {
	var errResp *paypal.ErrorResponse
	if apperrors.As(err, &errResp) {
		return apperrors.NewGatewayRejectedError(errResp.Error())
	}
	return apperrors.NewGatewayUnreachableError(err)
}
