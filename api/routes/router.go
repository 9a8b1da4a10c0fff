package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/livingwaters/fundraiser-backend/api/controllers"
	"github.com/livingwaters/fundraiser-backend/api/middleware"
	authsvc "github.com/livingwaters/fundraiser-backend/internal/auth"
	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/journal"
	ordersvc "github.com/livingwaters/fundraiser-backend/internal/orders"
	productsvc "github.com/livingwaters/fundraiser-backend/internal/products"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Store    *store.Store
	Hub      *broadcast.Hub
	Orders   ordersvc.Service
	Products productsvc.Service
	Auth     authsvc.Service

	// Journal is the optional durable audit trail; nil disables the
	// admin journal endpoint.
	Journal *journal.Journal

	// Pingers feed the readiness probe; nil entries are skipped.
	Pingers map[string]controllers.Pinger

	// Now is injectable for schedule tests.
	Now func() time.Time
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.CORS(),
	)

	admin := middleware.Admin(deps.Auth, deps.Logger)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Pingers))
	})

	r.Get("/ws", controllers.Connect(deps.Hub, deps.Store, deps.Config.Push, deps.Logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(deps.Auth, deps.Logger))
			r.With(admin).Post("/logout", controllers.AuthLogout(deps.Auth, deps.Logger))
			r.With(admin).Post("/password", controllers.AuthChangePassword(deps.Auth, deps.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, deps.Logger))
			r.Post("/", controllers.CreateOrder(deps.Orders, deps.Logger))
			r.With(admin).Patch("/{orderID}", controllers.PatchOrder(deps.Orders, deps.Logger))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, deps.Logger))
			r.Post("/sync", controllers.SyncProducts(deps.Products, deps.Logger))
			r.With(admin).Patch("/{productID}", controllers.PatchProduct(deps.Products, deps.Logger))
		})

		r.Get("/schedule", controllers.Schedule(deps.Logger, deps.Now))

		r.Route("/admin", func(r chi.Router) {
			r.Use(admin)
			r.Get("/journal", controllers.JournalEntries(deps.Journal, deps.Logger))
			r.Route("/reports", func(r chi.Router) {
				r.Get("/production", controllers.ProductionReport(deps.Store, deps.Logger))
				r.Get("/shopping-list", controllers.ShoppingListReport(deps.Store, deps.Logger))
				r.Get("/sales", controllers.SalesReport(deps.Store, deps.Logger))
				r.Get("/delivery-route", controllers.DeliveryRouteReport(deps.Store, deps.Logger))
			})
		})
	})

	return r
}
