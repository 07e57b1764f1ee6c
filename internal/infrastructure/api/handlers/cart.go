package handlers

import (
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/venturashop/checkout/internal/errors"
	http2 "github.com/venturashop/checkout/internal/infrastructure/api/http"
	"github.com/venturashop/checkout/internal/usecases/dtos"
	"github.com/venturashop/checkout/internal/usecases/interactor"
	"github.com/venturashop/checkout/pkg/log"
	"net/http"
)

type CartHandler struct {
	interactor *interactor.CartInteractor
	logger     *zerolog.Logger
}

func NewCartHandler(interactor *interactor.CartInteractor) *CartHandler {
	logger := log.GetLogger()
	return &CartHandler{interactor: interactor, logger: &logger}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartCode := r.URL.Query().Get("cart_code")
	if cartCode == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrCartCodeRequired))
		return
	}

	cart, err := h.interactor.GetCart(cartCode)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get cart")
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) GetCartStat(w http.ResponseWriter, r *http.Request) {
	cartCode := r.URL.Query().Get("cart_code")
	if cartCode == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrCartCodeRequired))
		return
	}

	stat, err := h.interactor.GetCartStat(cartCode)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to get cart stat")
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stat)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var dto dtos.AddItemDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	if dto.CartCode == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrCartCodeRequired))
		return
	}

	item, err := h.interactor.AddItem(dto.CartCode, dto.ProductID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to add cart item")
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Data    *dtos.CartItemDTO `json:"data"`
		Message string            `json:"message"`
	}{Data: item, Message: "Cart item created successfully"})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var dto dtos.UpdateQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidRequestBody))
		return
	}

	item, err := h.interactor.UpdateQuantity(dto.ItemID, dto.Quantity)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to update cart item")
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data    *dtos.CartItemDTO `json:"data"`
		Message string            `json:"message"`
	}{Data: item, Message: "Cart item updated successfully"})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemId := chi.URLParam(r, http2.CartItemIDParam)

	if err := h.interactor.RemoveItem(itemId); err != nil {
		h.logger.Error().Err(err).Msg("Failed to remove cart item")
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
	}{Message: "Item deleted successfully"})
}

func (h *CartHandler) ContainsProduct(w http.ResponseWriter, r *http.Request) {
	cartCode := r.URL.Query().Get("cart_code")
	productId := r.URL.Query().Get("product_id")
	if cartCode == "" || productId == "" {
		errors.HandleHTTPError(w, errors.NewBadRequestError("cart_code and product_id are required"))
		return
	}

	exists, err := h.interactor.ContainsProduct(cartCode, productId)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to check cart item")
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		ProductInCart bool `json:"product_in_cart"`
	}{ProductInCart: exists})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
