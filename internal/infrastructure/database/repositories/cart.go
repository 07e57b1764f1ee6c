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

type CartRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewCartRepositoryImpl(db *pgxpool.Pool) repositories.CartRepository {
	return &CartRepositoryImpl{
		db: db,
	}
}

const getCartByCode = `
SELECT id, cart_code, COALESCE(user_id::TEXT, ''), paid, created_at, modified_at
FROM carts
WHERE cart_code = $1;`

func (r *CartRepositoryImpl) GetByCode(ctx context.Context, code string) (*models.Cart, error) {
	cart := &models.Cart{}
	err := r.db.QueryRow(ctx, getCartByCode, code).Scan(
		&cart.ID,
		&cart.CartCode,
		&cart.UserID,
		&cart.Paid,
		&cart.CreatedAt,
		&cart.ModifiedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cart")
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return cart, nil
}

const getOrCreateCart = `
INSERT INTO carts (cart_code)
VALUES ($1)
ON CONFLICT (cart_code) DO UPDATE SET modified_at = now()
RETURNING id, cart_code, COALESCE(user_id::TEXT, ''), paid, created_at, modified_at;`

func (r *CartRepositoryImpl) GetOrCreateByCode(ctx context.Context, code string) (*models.Cart, error) {
	cart := &models.Cart{}
	err := r.db.QueryRow(ctx, getOrCreateCart, code).Scan(
		&cart.ID,
		&cart.CartCode,
		&cart.UserID,
		&cart.Paid,
		&cart.CreatedAt,
		&cart.ModifiedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("get or create cart: %w", err)
	}

	return cart, nil
}

const getCartItems = `
SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.price, ci.quantity
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.created_at;`

func (r *CartRepositoryImpl) GetItems(ctx context.Context, cartID string) ([]models.CartItem, error) {
	rows, err := r.db.Query(ctx, getCartItems, cartID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	items := make([]models.CartItem, 0)
	for rows.Next() {
		var item models.CartItem
		err = rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.ProductPrice, &item.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

const addCartItem = `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, 1)
ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = 1, modified_at = now()
RETURNING id;`

const getCartItem = `
SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.price, ci.quantity
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.id = $1;`

// AddItem puts the product in the cart with quantity 1, resetting the line if
// it is already present.
func (r *CartRepositoryImpl) AddItem(ctx context.Context, cartID, productID string) (*models.CartItem, error) {
	var itemID string
	err := r.db.QueryRow(ctx, addCartItem, cartID, productID).Scan(&itemID)
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	return r.getItem(ctx, itemID)
}

const updateCartItemQuantity = `
UPDATE cart_items
SET quantity = $2, modified_at = now()
WHERE id = $1
RETURNING id;`

func (r *CartRepositoryImpl) UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*models.CartItem, error) {
	var id string
	err := r.db.QueryRow(ctx, updateCartItemQuantity, itemID, quantity).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cart item")
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	return r.getItem(ctx, id)
}

func (r *CartRepositoryImpl) RemoveItem(ctx context.Context, itemID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM cart_items WHERE id = $1", itemID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("cart item")
	}

	return nil
}

func (r *CartRepositoryImpl) ContainsProduct(ctx context.Context, cartID, productID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM cart_items WHERE cart_id = $1 AND product_id = $2)",
		cartID,
		productID,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("check cart item: %w", err)
	}

	return exists, nil
}

func (r *CartRepositoryImpl) getItem(ctx context.Context, itemID string) (*models.CartItem, error) {
	item := &models.CartItem{}
	err := r.db.QueryRow(ctx, getCartItem, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.ProductName,
		&item.ProductPrice,
		&item.Quantity,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("cart item")
		}
		return nil, err
	}

	return item, nil
}
