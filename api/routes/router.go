package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nivora-bio/labcart-backend/api/controllers"
	"github.com/nivora-bio/labcart-backend/api/middleware"
	cartcore "github.com/nivora-bio/labcart-backend/internal/cart"
	checkoutsvc "github.com/nivora-bio/labcart-backend/internal/checkout"
	ordersvc "github.com/nivora-bio/labcart-backend/internal/orders"
	productsvc "github.com/nivora-bio/labcart-backend/internal/products"
	"github.com/nivora-bio/labcart-backend/pkg/config"
	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	carts *cartcore.Manager,
	productService *productsvc.Service,
	orderService *ordersvc.Service,
	checkoutService *checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(productService, logg))
			r.Get("/{productID}", controllers.ProductDetail(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Get("/", controllers.CartGet(carts, logg))
			r.Post("/items", controllers.CartAddItem(carts, logg))
			r.Patch("/items/{itemID}", controllers.CartUpdateQuantity(carts, logg))
			r.Delete("/items/{itemID}", controllers.CartRemoveItem(carts, logg))
			r.Delete("/", controllers.CartClear(carts, logg))
			r.Post("/visibility", controllers.CartVisibility(carts, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Post("/", controllers.Checkout(checkoutService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Get("/", controllers.OrderList(orderService, logg))
			r.Get("/{orderID}", controllers.OrderDetail(orderService, logg))
		})
	})

	return r
}
