package routes

import (
	"net/http"

	"github.com/angelmondragon/utmart-backend/api/controllers"
	"github.com/angelmondragon/utmart-backend/api/controllers/storefront"
	"github.com/angelmondragon/utmart-backend/api/middleware"
	sf "github.com/angelmondragon/utmart-backend/internal/storefront"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/redis"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// NewStorefrontRouter builds the shopper-facing handler. Every page and cart
// route runs inside a cookie-identified session.
func NewStorefrontRouter(
	cfg *config.Config,
	logg *logger.Logger,
	reg *prometheus.Registry,
	redisClient *redis.Client,
	pages *sf.Pages,
	sessions *sf.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics(reg, "storefront")),
		middleware.CORS(cfg.CORS),
	)

	deps := map[string]controllers.Pinger{"redis": nil}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	mountOps(r, cfg, logg, reg, deps)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Storefront.CookieName, cfg.Storefront.SessionTTL, logg))

		r.Get("/", storefront.Home(pages))
		r.Get("/products", storefront.Products(pages, logg))
		r.Get("/products/{id}", storefront.Product(pages, sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", storefront.Cart(sessions, logg))
			r.Delete("/", storefront.ClearCart(sessions, logg))
			r.Post("/items", storefront.AddCartItem(pages, sessions, logg))
			r.Patch("/items/{productId}", storefront.UpdateCartItem(sessions, logg))
			r.Delete("/items/{productId}", storefront.RemoveCartItem(sessions, logg))
			r.Post("/toggle", storefront.ToggleCart(sessions, logg))
			r.Post("/close", storefront.CloseCart(sessions, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", storefront.Checkout(sessions, logg))
			r.Post("/address", storefront.SubmitAddress(sessions, logg))
			r.Post("/payment", storefront.SubmitPayment(sessions, logg))
			r.Post("/step", storefront.GoToStep(sessions, logg))
			r.Post("/place-order", storefront.PlaceOrder(sessions, logg))
		})
	})

	return r
}
