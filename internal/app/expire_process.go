package app

import (
	"context"
	"github.com/venturashop/checkout/internal/config"
	"strconv"
	"time"
)

type ExpireHandler interface {
	Execute(ctx context.Context) error
}

// ExpireTransactionProcess periodically terminalizes abandoned pending
// transactions.
type ExpireTransactionProcess struct {
	handler ExpireHandler
	config  config.Expiry
}

func NewExpireTransactionProcess(h ExpireHandler, cfg config.Expiry) *ExpireTransactionProcess {
	return &ExpireTransactionProcess{handler: h, config: cfg}
}

// Run runs the expiry sweep until the context is cancelled.
func (p *ExpireTransactionProcess) Run(ctx context.Context) error {
	interval, err := strconv.Atoi(p.config.Interval)
	if err != nil {
		return err
	}
	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			tickCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			p.handler.Execute(tickCtx)
			cancel()
		}
	}
}
