package interactor

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/venturashop/checkout/internal/domain/repositories"
	"github.com/venturashop/checkout/pkg/log"
	"time"
)

// ExpireTransactionsInteractor fails pending transactions older than maxAge so
// abandoned checkouts reach a terminal state. The compare-and-set status guard
// makes this safe against a late callback racing the sweep.
type ExpireTransactionsInteractor struct {
	transactionRepository repositories.TransactionRepository
	maxAge                time.Duration
	logger                *zerolog.Logger
}

func NewExpireTransactionsInteractor(transactionRepository repositories.TransactionRepository, maxAge time.Duration) *ExpireTransactionsInteractor {
	l := log.GetLogger()
	return &ExpireTransactionsInteractor{
		transactionRepository: transactionRepository,
		maxAge:                maxAge,
		logger:                &l,
	}
}

func (i *ExpireTransactionsInteractor) Execute(ctx context.Context) error {
	references, err := i.transactionRepository.FailOlderThan(ctx, time.Now().Add(-i.maxAge))
	if err != nil {
		i.logger.Error().Err(err).Msg("Failed to expire pending transactions")
		return err
	}

	for _, reference := range references {
		i.logger.Info().Str("reference", reference).Msg("Expired pending transaction")
	}

	return nil
}
