package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RouterConfig wires the handler groups onto one chi router.
type RouterConfig struct {
	Catalog  CatalogReader
	Reserver StockReserver
	Resolver ReservationResolver
	Admin    interface {
		AdminSaleService
		AdminItemService
	}
	Scheduler   PassRunner
	Logger      *log.Logger
	CORSOrigins []string
	// ReserveRate throttles POST /reservations per client IP; zero disables
	// the limiter.
	ReserveRate  rate.Limit
	ReserveBurst int
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(func(next http.Handler) http.Handler {
		return RequestLogger(next, cfg.Logger)
	})
	r.Use(func(next http.Handler) http.Handler {
		return CORS(cfg.CORSOrigins, next)
	})
	r.NotFound(NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HealthHandler)

	r.Route("/flash-sales", func(r chi.Router) {
		r.Get("/", HandleListActiveSales(cfg.Catalog))
		r.Get("/{id}/items", HandleListSaleItems(cfg.Catalog))
		r.Get("/{id}/items/{productID}/availability", HandleAvailability(cfg.Catalog))
	})

	r.Route("/reservations", func(r chi.Router) {
		if cfg.ReserveRate > 0 {
			r.With(RateLimit(cfg.ReserveRate, cfg.ReserveBurst)).Post("/", HandleCreateReservation(cfg.Reserver))
		} else {
			r.Post("/", HandleCreateReservation(cfg.Reserver))
		}
		r.Post("/{id}/commit", HandleCommitReservation(cfg.Resolver))
		r.Post("/{id}/release", HandleReleaseReservation(cfg.Resolver))
	})

	r.Route("/admin/flash-sales", func(r chi.Router) {
		r.Post("/", HandleCreateSale(cfg.Admin))
		r.Patch("/{id}", HandleUpdateSale(cfg.Admin))
		r.Post("/{id}/cancel", HandleCancelSale(cfg.Admin))
		r.Delete("/{id}", HandleDeleteSale(cfg.Admin))
		r.Get("/{id}/stats", HandleSaleStats(cfg.Admin))
		r.Post("/{id}/items", HandleAddItem(cfg.Admin))
	})
	r.Patch("/admin/items/{id}", HandleUpdateItem(cfg.Admin))
	r.Delete("/admin/items/{id}", HandleRemoveItem(cfg.Admin))

	r.Post("/ops/scheduler/run", HandleRunSchedulerPass(cfg.Scheduler))

	return r
}
