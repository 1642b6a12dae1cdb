package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flashnacks/flashnacks-backend/api/controllers"
	"github.com/flashnacks/flashnacks-backend/api/middleware"
	cartsvc "github.com/flashnacks/flashnacks-backend/internal/cart"
	catalogsvc "github.com/flashnacks/flashnacks-backend/internal/catalog"
	checkoutsvc "github.com/flashnacks/flashnacks-backend/internal/checkout"
	inventorysvc "github.com/flashnacks/flashnacks-backend/internal/inventory"
	purchasesvc "github.com/flashnacks/flashnacks-backend/internal/purchases"
	"github.com/flashnacks/flashnacks-backend/pkg/config"
	"github.com/flashnacks/flashnacks-backend/pkg/db"
	"github.com/flashnacks/flashnacks-backend/pkg/logger"
	pkgredis "github.com/flashnacks/flashnacks-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        db.Pinger
	Redis     *pkgredis.Client
	Catalog   catalogsvc.Service
	Inventory inventorysvc.Service
	Cart      cartsvc.Service
	Checkout  checkoutsvc.Service
	Purchases purchasesvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Storefront reads need no identity.
		r.Get("/restaurants", controllers.ListRestaurants(deps.Catalog, logg))
		r.Get("/restaurants/{slug}/menu", controllers.GetMenu(deps.Catalog, logg))
		r.Get("/products/{productID}", controllers.GetProduct(deps.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.Session, logg))
			r.Use(middleware.Idempotency(deps.Redis, cfg.Checkout.IdempotencyTTL, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/lines", controllers.AddCartLine(deps.Cart, logg))
				r.Patch("/lines/{lineID}", controllers.UpdateCartLine(deps.Cart, logg))
				r.Delete("/lines/{lineID}", controllers.RemoveCartLine(deps.Cart, logg))
				r.Post("/merge", controllers.MergeCart(deps.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/purchases", func(r chi.Router) {
				r.Get("/", controllers.ListPurchases(deps.Purchases, logg))
				r.Get("/{purchaseID}", controllers.GetPurchase(deps.Purchases, logg))
				r.Post("/{purchaseID}/cancel", controllers.CancelPurchase(deps.Purchases, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminOnly(cfg.Session, logg))

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(deps.Catalog, logg))
			r.Put("/{productID}/recipe", controllers.SetRecipe(deps.Catalog, logg))
		})

		r.Route("/menus/{menuID}/products/{productID}", func(r chi.Router) {
			r.Put("/", controllers.AssignProductToMenu(deps.Catalog, logg))
			r.Delete("/", controllers.RemoveProductFromMenu(deps.Catalog, logg))
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", controllers.ListIngredients(deps.Inventory, logg))
			r.Post("/", controllers.CreateIngredient(deps.Inventory, logg))
			r.Get("/{ingredientID}", controllers.GetIngredient(deps.Inventory, logg))
			r.Patch("/{ingredientID}", controllers.UpdateIngredient(deps.Inventory, logg))
			r.Post("/{ingredientID}/stock", controllers.AdjustStock(deps.Inventory, logg))
		})

		r.Get("/restock", controllers.RestockList(deps.Inventory, logg))
		r.Post("/purchases/{purchaseID}/complete", controllers.CompletePurchase(deps.Purchases, logg))
	})

	return r
}
