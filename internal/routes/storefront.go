// Package routes wires handlers and middleware into the router.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/handler/storefront"
	"github.com/luminastore/lumina/internal/middleware"
	"github.com/luminastore/lumina/internal/router"
)

// Services collects the service dependencies of the HTTP surface.
type Services struct {
	Users    domain.UserService
	Catalog  domain.CatalogService
	Carts    domain.CartService
	Checkout domain.CheckoutService
}

// Options configures route construction.
type Options struct {
	Logger        *slog.Logger
	Metrics       *middleware.Metrics
	Registry      *prometheus.Registry
	SecureCookies bool
}

// New builds the application router with the full middleware chain.
func New(svc Services, opts Options) *router.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	chain := []router.Middleware{
		middleware.RequestID,
		middleware.WithUser(svc.Users),
		middleware.WithRequestLogger(logger),
	}
	if opts.Metrics != nil {
		chain = append([]router.Middleware{opts.Metrics.Middleware}, chain...)
	}

	r := router.New(chain...)

	auth := storefront.NewAuthHandler(svc.Users, opts.SecureCookies)
	products := storefront.NewProductHandler(svc.Catalog)
	carts := storefront.NewCartHandler(svc.Carts)
	checkout := storefront.NewCheckoutHandler(svc.Checkout)

	// Public surface
	r.Post("/register", auth.Register)
	r.Post("/login", auth.Login)
	r.Post("/logout", auth.Logout)
	r.Get("/products", products.List)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Authenticated surface
	authed := r.Group(middleware.RequireAuth)
	authed.Get("/me", auth.Me)
	authed.Get("/cart", carts.View)
	authed.Post("/cart/add", carts.Add)
	authed.Post("/cart/update", carts.Update)
	authed.Post("/cart/remove", carts.Remove)
	authed.Post("/checkout", checkout.Checkout)

	if opts.Registry != nil {
		r.Handle(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	return r
}
