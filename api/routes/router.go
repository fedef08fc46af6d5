package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minhvule/teacart/api/controllers"
	cartcontrollers "github.com/minhvule/teacart/api/controllers/cart"
	"github.com/minhvule/teacart/api/middleware"
	"github.com/minhvule/teacart/internal/cart"
	"github.com/minhvule/teacart/pkg/config"
	"github.com/minhvule/teacart/pkg/logger"
)

// Dependencies carries everything the router needs wired in.
type Dependencies struct {
	Manager        *cart.Manager
	CachePinger    controllers.Pinger
	UpstreamPinger controllers.Pinger
	Registry       *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.ExtraCORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"cache":    deps.CachePinger,
			"upstream": deps.UpstreamPinger,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/", cartcontrollers.CartFetch(deps.Manager, logg))
		r.Delete("/", cartcontrollers.CartClear(deps.Manager, logg))
		r.Get("/snapshots", cartcontrollers.SnapshotList(deps.Manager, logg))
		r.Post("/items", cartcontrollers.ItemAdd(deps.Manager, logg))
		r.Put("/items/quantity", cartcontrollers.ItemQuantityUpdate(deps.Manager, logg))
		r.Put("/items/config", cartcontrollers.ItemConfigUpdate(deps.Manager, logg))
		r.Delete("/items", cartcontrollers.ItemRemove(deps.Manager, logg))
		r.Put("/store", cartcontrollers.StoreSwitch(deps.Manager, logg))
		r.Put("/selection", cartcontrollers.SelectionUpdate(deps.Manager, logg))
		r.Post("/session/revoke", cartcontrollers.SessionRevoke(deps.Manager, logg))
	})

	return r
}
