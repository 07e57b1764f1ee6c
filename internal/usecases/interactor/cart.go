package interactor

import (
	"context"
	"github.com/shopspring/decimal"
	"github.com/venturashop/checkout/internal/domain/models"
	"github.com/venturashop/checkout/internal/domain/repositories"
	apperrors "github.com/venturashop/checkout/internal/errors"
	"github.com/venturashop/checkout/internal/usecases/dtos"
	"time"
)

type CartInteractor struct {
	cartRepository    repositories.CartRepository
	productRepository repositories.ProductRepository
}

func NewCartInteractor(cartRepository repositories.CartRepository, productRepository repositories.ProductRepository) *CartInteractor {
	return &CartInteractor{
		cartRepository:    cartRepository,
		productRepository: productRepository,
	}
}

// GetCart returns the unpaid cart for the code with line totals and the same
// sum the checkout will charge (before tax).
func (i *CartInteractor) GetCart(cartCode string) (*dtos.CartDTO, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, items, err := i.unpaidCartWithItems(ctx, cartCode)
	if err != nil {
		return nil, err
	}

	dto := &dtos.CartDTO{
		ID:       cart.ID,
		CartCode: cart.CartCode,
		Items:    make([]dtos.CartItemDTO, 0, len(items)),
		SumTotal: CartTotal(items),
	}

	for _, item := range items {
		dto.Items = append(dto.Items, cartItemDTO(&item))
		dto.NumOfItems += item.Quantity
	}

	return dto, nil
}

func (i *CartInteractor) GetCartStat(cartCode string) (*dtos.CartStatDTO, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, items, err := i.unpaidCartWithItems(ctx, cartCode)
	if err != nil {
		return nil, err
	}

	stat := &dtos.CartStatDTO{ID: cart.ID, CartCode: cart.CartCode}
	for _, item := range items {
		stat.NumOfItems += item.Quantity
	}

	return stat, nil
}

// AddItem puts a product into the cart identified by code, creating the cart
// on first use.
func (i *CartInteractor) AddItem(cartCode, productID string) (*dtos.CartItemDTO, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := i.productRepository.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	cart, err := i.cartRepository.GetOrCreateByCode(ctx, cartCode)
	if err != nil {
		return nil, err
	}

	if cart.Paid {
		return nil, apperrors.NewAlreadyPaidError()
	}

	item, err := i.cartRepository.AddItem(ctx, cart.ID, product.ID)
	if err != nil {
		return nil, err
	}

	dto := cartItemDTO(item)
	return &dto, nil
}

func (i *CartInteractor) UpdateQuantity(itemID string, quantity int) (*dtos.CartItemDTO, error) {
	if quantity < 1 {
		return nil, apperrors.NewBadRequestError("quantity must be at least 1")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item, err := i.cartRepository.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return nil, err
	}

	dto := cartItemDTO(item)
	return &dto, nil
}

func (i *CartInteractor) RemoveItem(itemID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return i.cartRepository.RemoveItem(ctx, itemID)
}

func (i *CartInteractor) ContainsProduct(cartCode, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := i.cartRepository.GetByCode(ctx, cartCode)
	if err != nil {
		return false, err
	}

	return i.cartRepository.ContainsProduct(ctx, cart.ID, productID)
}

func (i *CartInteractor) unpaidCartWithItems(ctx context.Context, cartCode string) (*models.Cart, []models.CartItem, error) {
	cart, err := i.cartRepository.GetByCode(ctx, cartCode)
	if err != nil {
		return nil, nil, err
	}

	if cart.Paid {
		return nil, nil, apperrors.NewNotFoundError("cart")
	}

	items, err := i.cartRepository.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}

	return cart, items, nil
}

func cartItemDTO(item *models.CartItem) dtos.CartItemDTO {
	return dtos.CartItemDTO{
		ID: item.ID,
		Product: dtos.ProductDTO{
			ID:    item.ProductID,
			Name:  item.ProductName,
			Price: item.ProductPrice,
		},
		Quantity: item.Quantity,
		Total:    item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
}
