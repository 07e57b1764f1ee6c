package models

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Slug        string          `db:"slug"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
}
