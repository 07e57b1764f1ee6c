package dtos

import "github.com/shopspring/decimal"

type ProductDTO struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CartItemDTO struct {
	ID       string          `json:"id"`
	Product  ProductDTO      `json:"product"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type CartDTO struct {
	ID         string          `json:"id"`
	CartCode   string          `json:"cart_code"`
	Items      []CartItemDTO   `json:"items"`
	SumTotal   decimal.Decimal `json:"sum_total"`
	NumOfItems int             `json:"num_of_items"`
}

type CartStatDTO struct {
	ID         string `json:"id"`
	CartCode   string `json:"cart_code"`
	NumOfItems int    `json:"num_of_items"`
}

type AddItemDTO struct {
	CartCode  string `json:"cart_code"`
	ProductID string `json:"product_id"`
}

type UpdateQuantityDTO struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}
