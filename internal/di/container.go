package di

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/venturashop/checkout/internal/config"
	"github.com/venturashop/checkout/internal/infrastructure/api/handlers"
	"github.com/venturashop/checkout/internal/infrastructure/database/repositories"
	"github.com/venturashop/checkout/internal/infrastructure/gateway"
	"github.com/venturashop/checkout/internal/usecases/interactor"
	"github.com/venturashop/checkout/pkg/log"
	"strconv"
	"time"
)

type Container struct {
	CheckoutHandler              *handlers.CheckoutHandler
	CartHandler                  *handlers.CartHandler
	UserInteractor               *interactor.UserInteractor
	ExpireTransactionsInteractor *interactor.ExpireTransactionsInteractor
}

// NewContainer creates a new Container instance.
func NewContainer(db *pgxpool.Pool, cfg *config.Config) *Container {
	logger := log.GetLogger()

	transactionRepository := repositories.NewTransactionRepositoryImpl(db)
	cartRepository := repositories.NewCartRepositoryImpl(db)
	productRepository := repositories.NewProductRepositoryImpl(db)
	userRepository := repositories.NewUserRepositoryImpl(db)

	adapters := []gateway.Adapter{
		gateway.NewFlutterwaveAdapter(cfg.Flutterwave.SecretKey, cfg.Flutterwave.APIBase),
	}
	if cfg.PayPal.ClientID != "" {
		paypalAdapter, err := gateway.NewPaypalAdapter(cfg.PayPal.Mode, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to configure PayPal gateway")
		}
		adapters = append(adapters, paypalAdapter)
	}

	checkoutInteractor := interactor.NewCheckoutInteractor(transactionRepository, cartRepository, userRepository, adapters, cfg.Checkout)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutInteractor)

	cartInteractor := interactor.NewCartInteractor(cartRepository, productRepository)
	cartHandler := handlers.NewCartHandler(cartInteractor)

	userInteractor := interactor.NewUserInteractor(userRepository)

	maxAge, err := strconv.Atoi(cfg.Expiry.MaxAge)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid expiry max age in configuration")
	}
	expireInteractor := interactor.NewExpireTransactionsInteractor(transactionRepository, time.Duration(maxAge)*time.Minute)

	return &Container{
		CheckoutHandler:              checkoutHandler,
		CartHandler:                  cartHandler,
		UserInteractor:               userInteractor,
		ExpireTransactionsInteractor: expireInteractor,
	}
}
