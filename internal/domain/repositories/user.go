package repositories

import (
	"context"
	"github.com/venturashop/checkout/internal/domain/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
