package handlers

import (
	"encoding/json"
	"github.com/rs/zerolog"
	"github.com/venturashop/checkout/internal/domain/models"
	"github.com/venturashop/checkout/internal/errors"
	http2 "github.com/venturashop/checkout/internal/infrastructure/api/http"
	"github.com/venturashop/checkout/internal/infrastructure/gateway"
	"github.com/venturashop/checkout/internal/usecases/dtos"
	"github.com/venturashop/checkout/internal/usecases/interactor"
	"github.com/venturashop/checkout/pkg/log"
	"net/http"
)

type CheckoutHandler struct {
	interactor *interactor.CheckoutInteractor
	logger     *zerolog.Logger
}

func NewCheckoutHandler(interactor *interactor.CheckoutInteractor) *CheckoutHandler {
	logger := log.GetLogger()
	return &CheckoutHandler{interactor: interactor, logger: &logger}
}

func (h *CheckoutHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var dto dtos.CheckoutRequestDTO
	err := json.NewDecoder(r.Body).Decode(&dto)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	if dto.CartCode == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrCartCodeRequired))
		return
	}

	if dto.Gateway == "" {
		dto.Gateway = models.GatewayFlutterwave
	}

	userId := r.Header.Get(http2.UserIDHeader)
	response, err := h.interactor.StartCheckout(dto.CartCode, userId, dto.Gateway)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedStartCheckout)
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Callback handles both gateways' return calls. Flutterwave sends status,
// tx_ref and transaction_id; PayPal sends paymentId, PayerID and ref. The
// reference is the only correlation key.
func (h *CheckoutHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	reference := query.Get("tx_ref")
	if reference == "" {
		reference = query.Get("ref")
	}
	if reference == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrReferenceRequired))
		return
	}

	cb := gateway.CallbackData{
		Reference:     reference,
		Status:        query.Get("status"),
		TransactionID: query.Get("transaction_id"),
		PaymentID:     query.Get("paymentId"),
		PayerID:       query.Get("PayerID"),
	}

	userId := r.Header.Get(http2.UserIDHeader)
	response, err := h.interactor.HandleCallback(reference, cb, userId)
	if err != nil {
		h.logger.Error().Err(err).Str("reference", reference).Msg(errors.ErrFailedHandleCallback)
		errors.HandleHTTPError(w, err)
		return
	}

	status := http.StatusOK
	if !response.Settled {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
