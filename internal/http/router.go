package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_storefront/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Products *ProductHandler
	Health   *HealthHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(h Handlers, log zerolog.Logger, m *metrics.Metrics, timeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(m.Middleware)
	r.Use(MockAuthMiddleware)

	r.Get("/health", h.Health.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	r.Get("/checkout/success", h.Checkout.HandleReturn)
	r.Get("/checkout/cancel", h.Checkout.HandleReturn)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.Products.ListProducts)
		r.Get("/products/{product_id}", h.Products.GetProduct)

		r.Route("/admin/products", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/", h.Products.CreateProduct)
			r.Put("/{product_id}", h.Products.UpdateProduct)
			r.Delete("/{product_id}", h.Products.ArchiveProduct)
		})

		r.Get("/cart", h.Cart.GetCart)
		r.Delete("/cart", h.Cart.ClearCart)
		r.Post("/cart/items", h.Cart.AddItem)
		r.Put("/cart/items/{product_id}", h.Cart.UpdateQuantity)
		r.Delete("/cart/items/{product_id}", h.Cart.RemoveItem)

		r.Post("/checkout", h.Checkout.InitiateCheckout)

		r.Get("/orders", h.Orders.ListOrders)
		r.Get("/orders/{order_id}", h.Orders.GetOrder)
		r.Post("/orders/reconcile/{session_id}", h.Orders.Reconcile)
	})

	return r
}
