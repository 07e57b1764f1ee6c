package interactor

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/venturashop/checkout/internal/config"
	"github.com/venturashop/checkout/internal/domain/models"
	"github.com/venturashop/checkout/internal/domain/repositories"
	apperrors "github.com/venturashop/checkout/internal/errors"
	"github.com/venturashop/checkout/internal/infrastructure/gateway"
	"github.com/venturashop/checkout/internal/usecases/dtos"
	"github.com/venturashop/checkout/pkg/log"
	"time"
)

const (
	msgPaymentSuccessful     = "Payment successful!"
	subMsgPaymentSuccessful  = "You have successfully made payment for the items you purchased 😍"
	msgVerificationFailed    = "Payment verification failed."
	subMsgVerificationFailed = "Your payment verification failed, kindly try again. ✌️"
	msgPaymentNotSuccessful  = "Payment was not successful."
)

type CheckoutInteractor struct {
	transactionRepository repositories.TransactionRepository
	cartRepository        repositories.CartRepository
	userRepository        repositories.UserRepository
	gateways              map[string]gateway.Adapter
	tax                   decimal.Decimal
	currency              string
	baseURL               string
	logger                *zerolog.Logger
}

func NewCheckoutInteractor(
	transactionRepository repositories.TransactionRepository,
	cartRepository repositories.CartRepository,
	userRepository repositories.UserRepository,
	adapters []gateway.Adapter,
	cfg config.Checkout,
) *CheckoutInteractor {
	l := log.GetLogger()

	tax, err := decimal.NewFromString(cfg.Tax)
	if err != nil {
		l.Fatal().Err(err).Msg("Invalid tax amount in configuration")
	}

	gateways := make(map[string]gateway.Adapter, len(adapters))
	for _, adapter := range adapters {
		gateways[adapter.Name()] = adapter
	}

	return &CheckoutInteractor{
		transactionRepository: transactionRepository,
		cartRepository:        cartRepository,
		userRepository:        userRepository,
		gateways:              gateways,
		tax:                   tax,
		currency:              cfg.Currency,
		baseURL:               cfg.BaseURL,
		logger:                &l,
	}
}

// CartTotal is the single source of truth for what a cart is worth: the sum
// of line item price times quantity, before tax.
func CartTotal(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// StartCheckout opens a pending ledger entry for the cart total plus tax and
// asks the chosen gateway for an approval handle. A gateway failure
// terminalizes the entry; the client must start over with a new reference.
func (i *CheckoutInteractor) StartCheckout(cartCode, userID, gatewayName string) (*dtos.CheckoutResponseDTO, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	adapter, ok := i.gateways[gatewayName]
	if !ok {
		return nil, apperrors.NewBadRequestError(apperrors.ErrUnknownGateway)
	}

	cart, err := i.cartRepository.GetByCode(ctx, cartCode)
	if err != nil {
		return nil, err
	}

	if cart.Paid {
		return nil, apperrors.NewAlreadyPaidError()
	}

	items, err := i.cartRepository.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	user, err := i.userRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	reference := uuid.New().String()
	transaction := &models.Transaction{
		Reference: reference,
		CartID:    cart.ID,
		Amount:    CartTotal(items).Add(i.tax).Round(2),
		Currency:  i.currency,
		Gateway:   adapter.Name(),
		UserID:    user.ID,
	}

	if err = i.transactionRepository.Open(ctx, transaction); err != nil {
		return nil, err
	}

	handle, err := adapter.Initiate(ctx, gateway.InitiationRequest{
		Reference: reference,
		Amount:    transaction.Amount,
		Currency:  transaction.Currency,
		Customer: gateway.Customer{
			Email: user.Email,
			Name:  user.Username,
			Phone: user.Phone,
		},
		ReturnURL: fmt.Sprintf("%s/payment-status?ref=%s", i.baseURL, reference),
		CancelURL: fmt.Sprintf("%s/payment-status?paymentStatus=cancel", i.baseURL),
		Narrative: fmt.Sprintf("Payment for cart %s", cart.CartCode),
	})
	if err != nil {
		i.logger.Error().Err(err).Str("reference", reference).Msg("Payment initiation failed")
		if failErr := i.transactionRepository.Fail(ctx, reference); failErr != nil {
			i.logger.Error().Err(failErr).Str("reference", reference).Msg("Failed to terminalize transaction")
		}
		return nil, err
	}

	return &dtos.CheckoutResponseDTO{
		Reference:      reference,
		ApprovalURL:    handle.ApprovalURL,
		GatewayPayload: handle.Raw,
	}, nil
}

// HandleCallback reconciles a gateway callback against the ledger. The
// reference alone correlates the callback; the gateway that initiated the
// transaction is read from the ledger row, never inferred from the callback
// shape. A transaction that already left pending gets the stored result with
// no side effects.
func (i *CheckoutInteractor) HandleCallback(reference string, cb gateway.CallbackData, userID string) (*dtos.CallbackResponseDTO, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	transaction, err := i.transactionRepository.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if transaction.Status != models.StatusPending {
		return storedResult(transaction), nil
	}

	adapter, ok := i.gateways[transaction.Gateway]
	if !ok {
		return nil, apperrors.NewBadRequestError(apperrors.ErrUnknownGateway)
	}

	cb.Reference = reference
	outcome, err := adapter.Verify(ctx, cb)
	if err != nil {
		// The transaction stays pending: an unreachable provider during
		// verification must not discard a settlement the provider may have
		// recorded. The callback can be retried.
		return nil, err
	}

	if !outcome.Success {
		return i.settleFailure(ctx, reference, &dtos.CallbackResponseDTO{
			Message: msgPaymentNotSuccessful,
		})
	}

	if !outcome.Amount.Equal(transaction.Amount) || outcome.Currency != transaction.Currency {
		i.logger.Warn().
			Str("reference", reference).
			Str("expected_amount", transaction.Amount.String()).
			Str("verified_amount", outcome.Amount.String()).
			Str("expected_currency", transaction.Currency).
			Str("verified_currency", outcome.Currency).
			Msg("Verification mismatch")
		return i.settleFailure(ctx, reference, &dtos.CallbackResponseDTO{
			Message:    msgVerificationFailed,
			SubMessage: subMsgVerificationFailed,
		})
	}

	if err = i.transactionRepository.CompleteAndMarkCartPaid(ctx, reference, userID); err != nil {
		var invalid *apperrors.InvalidTransitionError
		if apperrors.As(err, &invalid) {
			// Lost the race to a concurrent callback; report whatever won.
			return i.reloadStoredResult(ctx, reference)
		}
		return nil, err
	}

	return &dtos.CallbackResponseDTO{
		Message:    msgPaymentSuccessful,
		SubMessage: subMsgPaymentSuccessful,
		Settled:    true,
	}, nil
}

func (i *CheckoutInteractor) settleFailure(ctx context.Context, reference string, response *dtos.CallbackResponseDTO) (*dtos.CallbackResponseDTO, error) {
	if err := i.transactionRepository.Fail(ctx, reference); err != nil {
		var invalid *apperrors.InvalidTransitionError
		if apperrors.As(err, &invalid) {
			return i.reloadStoredResult(ctx, reference)
		}
		return nil, err
	}
	return response, nil
}

func (i *CheckoutInteractor) reloadStoredResult(ctx context.Context, reference string) (*dtos.CallbackResponseDTO, error) {
	transaction, err := i.transactionRepository.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return storedResult(transaction), nil
}

func storedResult(transaction *models.Transaction) *dtos.CallbackResponseDTO {
	if transaction.Status == models.StatusCompleted {
		return &dtos.CallbackResponseDTO{
			Message:    msgPaymentSuccessful,
			SubMessage: subMsgPaymentSuccessful,
			Settled:    true,
		}
	}
	return &dtos.CallbackResponseDTO{
		Message:    msgVerificationFailed,
		SubMessage: subMsgVerificationFailed,
	}
}
