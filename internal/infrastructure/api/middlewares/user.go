package middlewares

import (
	"context"
	"github.com/venturashop/checkout/internal/errors"
	http2 "github.com/venturashop/checkout/internal/infrastructure/api/http"
	"github.com/venturashop/checkout/internal/usecases/interactor"
	"github.com/venturashop/checkout/pkg/log"
	"net/http"
	"time"
)

// UserValidationMiddleware validates the settling user from the X-User-ID header.
func UserValidationMiddleware(userInt *interactor.UserInteractor) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.GetLogger()
			userId := r.Header.Get(http2.UserIDHeader)
			if userId == "" {
				logger.Error().Msg(errors.ErrUserIDRequired)
				errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrUserIDRequired))
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if exists, _ := userInt.ExistsByID(ctx, userId); !exists {
				logger.Error().Msg(errors.ErrInvalidUserID)
				errors.HandleHTTPError(w, errors.NewBadRequestError(errors.ErrInvalidUserID))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
