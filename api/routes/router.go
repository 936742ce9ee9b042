package routes

import (
	"net/http"

	"github.com/angelmondragon/utmart-backend/api/controllers"
	"github.com/angelmondragon/utmart-backend/api/middleware"
	"github.com/angelmondragon/utmart-backend/internal/auth"
	"github.com/angelmondragon/utmart-backend/internal/categories"
	product "github.com/angelmondragon/utmart-backend/internal/products"
	"github.com/angelmondragon/utmart-backend/internal/userdata"
	"github.com/angelmondragon/utmart-backend/pkg/config"
	"github.com/angelmondragon/utmart-backend/pkg/logger"
	"github.com/angelmondragon/utmart-backend/pkg/metrics"
	"github.com/angelmondragon/utmart-backend/pkg/redis"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// APIServices groups the domain services the REST API exposes.
type APIServices struct {
	Auth       auth.Service
	Products   product.Service
	Categories categories.Service
	UserData   userdata.Service
}

// NewRouter builds the REST API handler. redisClient and reg may be nil; auth
// rate limiting and /metrics are then disabled.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	reg *prometheus.Registry,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	svc APIServices,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics(reg, "api")),
		middleware.CORS(cfg.CORS),
	)

	var limiter middleware.RateLimiterStore
	deps := map[string]controllers.Pinger{"db": dbP, "redis": nil}
	if redisClient != nil {
		limiter = redisClient
		deps["redis"] = redisClient
	}

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

	r.Get("/", controllers.Index())
	mountOps(r, cfg, logg, reg, deps)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svc.Products, logg))
		r.Post("/", controllers.CreateProduct(svc.Products, logg))
		r.Get("/export", controllers.ExportProducts(svc.Products, logg))
		r.Get("/category/{category}", controllers.ListProductsByCategory(svc.Products, logg))
		r.Get("/{id}", controllers.GetProduct(svc.Products, logg))
		r.Put("/{id}", controllers.UpdateProduct(svc.Products, logg))
		r.Delete("/{id}", controllers.DeleteProduct(svc.Products, logg))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.ListCategoryNames(svc.Categories, logg))
		r.Post("/", controllers.CreateCategory(svc.Categories, logg))
		r.Get("/details", controllers.ListCategoryDetails(svc.Categories, logg))
		r.Get("/{id}", controllers.GetCategory(svc.Categories, logg))
		r.Put("/{id}", controllers.UpdateCategory(svc.Categories, logg))
		r.Delete("/{id}", controllers.DeleteCategory(svc.Categories, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
	})

	r.Route("/api/data", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.CreateUserData(svc.UserData, logg))
		r.Get("/{userId}", controllers.ListUserData(svc.UserData, logg))
		r.Get("/{userId}/{id}", controllers.GetUserData(svc.UserData, logg))
		r.Put("/{userId}/{id}", controllers.UpdateUserData(svc.UserData, logg))
		r.Delete("/{userId}/{id}", controllers.DeleteUserData(svc.UserData, logg))
	})

	return r
}

func mountOps(r chi.Router, cfg *config.Config, logg *logger.Logger, reg *prometheus.Registry, deps map[string]controllers.Pinger) {
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps, logg))
	})
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}
}

func httpMetrics(reg *prometheus.Registry, service string) *metrics.HTTPMetrics {
	if reg == nil {
		return nil
	}
	return metrics.NewHTTPMetrics(reg, service)
}
