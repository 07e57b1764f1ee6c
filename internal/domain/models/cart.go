package models

import (
	"github.com/shopspring/decimal"
	"time"
)

type Cart struct {
	ID         string    `db:"id"`
	CartCode   string    `db:"cart_code"`
	UserID     string    `db:"user_id"`
	Paid       bool      `db:"paid"`
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
}

// CartItem carries the product price alongside the line so totals can be
// computed without an extra product lookup.
type CartItem struct {
	ID           string          `db:"id"`
	CartID       string          `db:"cart_id"`
	ProductID    string          `db:"product_id"`
	ProductName  string          `db:"product_name"`
	ProductPrice decimal.Decimal `db:"product_price"`
	Quantity     int             `db:"quantity"`
}
