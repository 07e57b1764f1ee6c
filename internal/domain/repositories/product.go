package repositories

import (
	"context"
	"github.com/venturashop/checkout/internal/domain/models"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
}
