package models

import (
	"github.com/shopspring/decimal"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	GatewayFlutterwave = "flutterwave"
	GatewayPaypal      = "paypal"
)

// Transaction is one payment attempt. Reference is the idempotency key for the
// whole settlement flow; Amount and Currency are snapshots taken at initiation
// and never change afterwards.
type Transaction struct {
	ID         string          `db:"id"`
	Reference  string          `db:"reference"`
	CartID     string          `db:"cart_id"`
	Amount     decimal.Decimal `db:"amount"`
	Currency   string          `db:"currency"`
	Status     string          `db:"status"`
	Gateway    string          `db:"gateway"`
	UserID     string          `db:"user_id"`
	CreatedAt  time.Time       `db:"created_at"`
	ModifiedAt time.Time       `db:"modified_at"`
}
