package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bazaarhq/bazaar-backend/api/controllers"
	"github.com/bazaarhq/bazaar-backend/api/middleware"
	"github.com/bazaarhq/bazaar-backend/internal/addresses"
	"github.com/bazaarhq/bazaar-backend/internal/auth"
	"github.com/bazaarhq/bazaar-backend/internal/cart"
	"github.com/bazaarhq/bazaar-backend/internal/catalog"
	"github.com/bazaarhq/bazaar-backend/internal/notifications"
	"github.com/bazaarhq/bazaar-backend/internal/orders"
	"github.com/bazaarhq/bazaar-backend/internal/reviews"
	"github.com/bazaarhq/bazaar-backend/internal/users"
	"github.com/bazaarhq/bazaar-backend/pkg/auth/session"
	"github.com/bazaarhq/bazaar-backend/pkg/config"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	pkgredis "github.com/bazaarhq/bazaar-backend/pkg/redis"
)

// Pinger is the health-check surface shared by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles every dependency the HTTP surface needs.
type RouterParams struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            Pinger
	Redis         *pkgredis.Client
	Sessions      session.AccessSessionChecker
	Auth          auth.Service
	Users         users.Service
	Addresses     addresses.Service
	Catalog       catalog.Service
	Reviews       reviews.Service
	Cart          cart.Service
	Orders        orders.Service
	Notifications notifications.Service
}

// NewRouter assembles the full route tree with middleware applied per surface.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, p.Redis, logg),
				middleware.Idempotency(p.Redis, logg),
			).Post("/register", controllers.Register(p.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.Login(p.Auth, logg))
			r.Post("/refresh", controllers.Refresh(p.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, p.Sessions, logg)).Post("/logout", controllers.Logout(p.Auth, logg))
		})

		// public storefront reads
		r.Get("/categories", controllers.ListCategories(p.Catalog, logg))
		r.Get("/categories/{categoryID}", controllers.GetCategory(p.Catalog, logg))
		r.Get("/products", controllers.ListProducts(p.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(p.Catalog, logg))
		r.Get("/products/{productID}/reviews", controllers.ListProductReviews(p.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Use(middleware.Idempotency(p.Redis, logg))

			r.Get("/users/me", controllers.GetMe(p.Users, logg))
			r.Patch("/users/me", controllers.UpdateMe(p.Users, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Post("/", controllers.CreateAddress(p.Addresses, logg))
				r.Get("/", controllers.ListAddresses(p.Addresses, logg))
				r.Get("/{addressID}", controllers.GetAddress(p.Addresses, logg))
				r.Put("/{addressID}", controllers.UpdateAddress(p.Addresses, logg))
				r.Delete("/{addressID}", controllers.DeleteAddress(p.Addresses, logg))
			})

			r.Post("/products/{productID}/reviews", controllers.CreateReview(p.Reviews, logg))
			r.Put("/reviews/{reviewID}", controllers.UpdateReview(p.Reviews, logg))
			r.Delete("/reviews/{reviewID}", controllers.DeleteReview(p.Reviews, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(p.Cart, logg))
				r.Delete("/", controllers.ClearCart(p.Cart, logg))
				r.Post("/items", controllers.AddCartLine(p.Cart, logg))
				r.Put("/items/{lineID}", controllers.UpdateCartLine(p.Cart, logg))
				r.Delete("/items/{lineID}", controllers.RemoveCartLine(p.Cart, logg))
			})

			r.Post("/orders", controllers.CreateOrder(p.Orders, logg))
			r.Get("/orders", controllers.ListMyOrders(p.Orders, logg))
			r.Get("/orders/{orderID}", controllers.GetOrder(p.Orders, logg))

			r.Get("/notifications", controllers.ListNotifications(p.Notifications, logg))
			r.Post("/notifications/{notificationID}/read", controllers.MarkNotificationRead(p.Notifications, logg))
			r.Post("/notifications/read-all", controllers.MarkAllNotificationsRead(p.Notifications, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.Sessions, logg))
			r.Use(middleware.RequireAdmin(logg))
			r.Use(middleware.Idempotency(p.Redis, logg))

			r.Post("/categories", controllers.CreateCategory(p.Catalog, logg))
			r.Put("/categories/{categoryID}", controllers.UpdateCategory(p.Catalog, logg))
			r.Delete("/categories/{categoryID}", controllers.DeleteCategory(p.Catalog, logg))

			r.Get("/products", controllers.ListProducts(p.Catalog, logg))
			r.Post("/products", controllers.CreateProduct(p.Catalog, logg))
			r.Put("/products/{productID}", controllers.UpdateProduct(p.Catalog, logg))
			r.Delete("/products/{productID}", controllers.DeleteProduct(p.Catalog, logg))

			r.Get("/orders", controllers.ListAllOrders(p.Orders, logg))
			r.Post("/orders/{orderID}/status", controllers.AppendOrderStatus(p.Orders, logg))
			r.Delete("/orders/{orderID}", controllers.DeleteOrder(p.Orders, logg))
		})
	})

	return r
}
