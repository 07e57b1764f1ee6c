package main

import (
	"context"
	"github.com/joho/godotenv"
	"github.com/venturashop/checkout/internal/app"
	"github.com/venturashop/checkout/internal/config"
	"github.com/venturashop/checkout/internal/di"
	"github.com/venturashop/checkout/internal/errors"
	"github.com/venturashop/checkout/internal/infrastructure/api/routers"
	"github.com/venturashop/checkout/internal/infrastructure/database/db_client"
	"github.com/venturashop/checkout/pkg/log"
)

const (
	appName = "checkout-api"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()
	cfg := config.Load()

	log.Init(appName, log.WithConsoleLogger())
	logger := log.GetLogger()

	pgClient := db_client.NewPGClient(cfg.PostgreSQL)
	db, err := pgClient.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg(errors.ErrorFailedToConnectToTheDatabase)
	}

	container := di.NewContainer(db, cfg)

	expire := app.NewExpireTransactionProcess(container.ExpireTransactionsInteractor, cfg.Expiry)
	go expire.Run(ctx)

	router := routers.NewRouter(container)
	service := app.NewService(cfg)
	service.Run(ctx, router)
}
