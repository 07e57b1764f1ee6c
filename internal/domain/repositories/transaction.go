package repositories

import (
	"context"
	"github.com/venturashop/checkout/internal/domain/models"
	"time"
)

const (
	SerializationError   = "40001"
	UniqueViolationError = "23505"
)

// TransactionRepository is the ledger of payment attempts. Status transitions
// are compare-and-set on the pending state, so concurrent callers for the same
// reference see exactly one winner; the loser gets InvalidTransitionError.
type TransactionRepository interface {
	Open(ctx context.Context, transaction *models.Transaction) error
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	// CompleteAndMarkCartPaid moves pending -> completed and flips the owning
	// cart to paid in one database transaction. An empty userID leaves the
	// cart owner unchanged.
	CompleteAndMarkCartPaid(ctx context.Context, reference string, userID string) error
	Fail(ctx context.Context, reference string) error
	// FailOlderThan terminalizes pending transactions created before the given
	// cutoff and returns their references.
	FailOlderThan(ctx context.Context, cutoff time.Time) ([]string, error)
}
