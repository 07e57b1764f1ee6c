package repositories

import (
	"context"
	"github.com/venturashop/checkout/internal/domain/models"
)

type CartRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Cart, error)
	GetOrCreateByCode(ctx context.Context, code string) (*models.Cart, error)
	GetItems(ctx context.Context, cartID string) ([]models.CartItem, error)
	AddItem(ctx context.Context, cartID, productID string) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, itemID string) error
	ContainsProduct(ctx context.Context, cartID, productID string) (bool, error)
}
