package routers

import (
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/venturashop/checkout/internal/di"
	http2 "github.com/venturashop/checkout/internal/infrastructure/api/http"
	"github.com/venturashop/checkout/internal/infrastructure/api/middlewares"
)

func NewRouter(container *di.Container) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Logger)

	// Set up v1 routes with a path prefix
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout", func(r chi.Router) {
			ch := container.CheckoutHandler
			r.With(middlewares.UserValidationMiddleware(container.UserInteractor)).Post("/initiate", ch.Initiate)
			// Gateways differ on callback verb; both land here.
			r.Post("/callback", ch.Callback)
			r.Get("/callback", ch.Callback)
		})
		r.Route("/cart", func(r chi.Router) {
			crt := container.CartHandler
			r.Get("/", crt.GetCart)
			r.Get("/stat", crt.GetCartStat)
			r.Post("/items", crt.AddItem)
			r.Patch("/items", crt.UpdateQuantity)
			r.Delete(fmt.Sprintf("/items/{%s}", http2.CartItemIDParam), crt.RemoveItem)
			r.Get("/items/contains", crt.ContainsProduct)
		})
	})

	return router
}
