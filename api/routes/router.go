package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rockshoes/cart-service/api/controllers"
	cartcontrollers "github.com/rockshoes/cart-service/api/controllers/cart"
	"github.com/rockshoes/cart-service/api/middleware"
	cartsvc "github.com/rockshoes/cart-service/internal/cart"
	"github.com/rockshoes/cart-service/pkg/config"
	"github.com/rockshoes/cart-service/pkg/logger"
)

// NewRouter assembles the HTTP surface: health probes, Prometheus metrics,
// and the session-scoped cart endpoints.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.Pinger,
	cartService cartsvc.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartSession(logg))
		r.Get("/", cartcontrollers.CartFetch(cartService, logg))
		r.Route("/items/{productID}", func(r chi.Router) {
			r.Post("/", cartcontrollers.CartAddItem(cartService, logg))
			r.Put("/", cartcontrollers.CartSetAmount(cartService, logg))
			r.Delete("/", cartcontrollers.CartRemoveItem(cartService, logg))
		})
	})

	return r
}
