package repositories

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/venturashop/checkout/internal/domain/models"
	"github.com/venturashop/checkout/internal/domain/repositories"
	apperrors "github.com/venturashop/checkout/internal/errors"
)

type ProductRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewProductRepositoryImpl(db *pgxpool.Pool) repositories.ProductRepository {
	return &ProductRepositoryImpl{
		db: db,
	}
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product := &models.Product{}
	err := r.db.QueryRow(
		ctx,
		"SELECT id, name, slug, COALESCE(description, ''), price FROM products WHERE id = $1",
		id,
	).Scan(&product.ID, &product.Name, &product.Slug, &product.Description, &product.Price)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("product")
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}
