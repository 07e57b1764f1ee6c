package repositories

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/venturashop/checkout/internal/domain/models"
	"github.com/venturashop/checkout/internal/domain/repositories"
	apperrors "github.com/venturashop/checkout/internal/errors"
	"github.com/venturashop/checkout/pkg/log"
	"time"
)

type TransactionRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewTransactionRepositoryImpl creates new instance of TransactionRepositoryImpl.
func NewTransactionRepositoryImpl(db *pgxpool.Pool) repositories.TransactionRepository {
	l := log.GetLogger()
	return &TransactionRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

const openTransaction = `
INSERT INTO transactions (reference, cart_id, amount, currency, status, gateway, user_id)
VALUES ($1, $2, $3::NUMERIC(10,2), $4, 'pending', $5, NULLIF($6::TEXT, '')::UUID)
RETURNING id, created_at, modified_at;`

// Open inserts a fresh pending row. The unique index on reference turns the
// astronomically unlikely collision into DuplicateReferenceError.
func (r *TransactionRepositoryImpl) Open(ctx context.Context, transaction *models.Transaction) error {
	err := r.db.QueryRow(
		ctx,
		openTransaction,
		transaction.Reference,
		transaction.CartID,
		transaction.Amount,
		transaction.Currency,
		transaction.Gateway,
		transaction.UserID,
	).Scan(&transaction.ID, &transaction.CreatedAt, &transaction.ModifiedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == repositories.UniqueViolationError {
			return apperrors.NewDuplicateReferenceError()
		}
		return fmt.Errorf("open transaction: %w", err)
	}

	transaction.Status = models.StatusPending
	return nil
}

const getByReference = `
SELECT id, reference, cart_id, amount, currency, status, gateway, COALESCE(user_id::TEXT, ''), created_at, modified_at
FROM transactions
WHERE reference = $1;`

// GetByReference returns the transaction for the given reference.
func (r *TransactionRepositoryImpl) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	transaction := &models.Transaction{}
	err := r.db.QueryRow(ctx, getByReference, reference).Scan(
		&transaction.ID,
		&transaction.Reference,
		&transaction.CartID,
		&transaction.Amount,
		&transaction.Currency,
		&transaction.Status,
		&transaction.Gateway,
		&transaction.UserID,
		&transaction.CreatedAt,
		&transaction.ModifiedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction")
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	return transaction, nil
}

const completeAndMarkCartPaid = `
WITH settled AS (
  UPDATE transactions
  SET status = 'completed', modified_at = now()
  WHERE reference = $1 AND status = 'pending'
  RETURNING cart_id
)
UPDATE carts
SET paid = TRUE,
    user_id = COALESCE(NULLIF($2::TEXT, '')::UUID, user_id),
    modified_at = now()
WHERE id = (SELECT cart_id FROM settled)
RETURNING id;`

// CompleteAndMarkCartPaid settles the transaction and the cart as one unit of
// work. The inner UPDATE is the compare-and-set: a transaction that already
// left pending updates zero rows, the outer UPDATE then matches nothing, and
// the caller gets InvalidTransitionError without any state change.
func (r *TransactionRepositoryImpl) CompleteAndMarkCartPaid(ctx context.Context, reference string, userID string) error {
	for {
		err := r.settleWithQuery(ctx, completeAndMarkCartPaid, reference, userID)

		if err == nil {
			return nil
		}

		if isSerializationError(err) {
			// retry transaction if serialization error occurs (SQLSTATE 40001)
			continue
		}

		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidTransitionError()
		}
		return fmt.Errorf("complete transaction: %w", err)
	}
}

func (r *TransactionRepositoryImpl) settleWithQuery(ctx context.Context, query string, args ...interface{}) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}

	var cartID string
	err = tx.QueryRow(ctx, query, args...).Scan(&cartID)
	if err != nil {
		r.logger.Error().Err(err).Msg("settlement error")
		tx.Rollback(ctx)
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		tx.Rollback(ctx)
		return err
	}

	return nil
}

const failTransaction = `
UPDATE transactions
SET status = 'failed', modified_at = now()
WHERE reference = $1 AND status = 'pending';`

// Fail moves pending -> failed. Same compare-and-set guard as completion.
func (r *TransactionRepositoryImpl) Fail(ctx context.Context, reference string) error {
	tag, err := r.db.Exec(ctx, failTransaction, reference)
	if err != nil {
		return fmt.Errorf("fail transaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NewInvalidTransitionError()
	}

	return nil
}

const failOlderThan = `
UPDATE transactions
SET status = 'failed', modified_at = now()
WHERE status = 'pending' AND created_at < $1
RETURNING reference;`

// FailOlderThan terminalizes abandoned pending transactions.
func (r *TransactionRepositoryImpl) FailOlderThan(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, failOlderThan, cutoff)
	if err != nil {
		return nil, fmt.Errorf("expire transactions: %w", err)
	}
	defer rows.Close()

	references := make([]string, 0)
	for rows.Next() {
		var reference string
		if err = rows.Scan(&reference); err != nil {
			return nil, err
		}
		references = append(references, reference)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return references, nil
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == repositories.SerializationError
}
