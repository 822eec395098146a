package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/observability"
)

type Services struct {
	Users    *service.UserService
	Products *service.ProductService
	Reviews  *service.ReviewService
	Orders   *service.OrderService
	Payments *service.PaymentService
	Stats    *service.StatsService
}

// Router builds the HTTP API.
type Router struct {
	services      Services
	metrics       *observability.Metrics
	maxUploadSize int64
	logger        *zap.Logger
}

func NewRouter(services Services, metrics *observability.Metrics, maxUploadSize int64, logger *zap.Logger) *Router {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Router{
		services:      services,
		metrics:       metrics,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(Metrics(rt.metrics))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	admin := AdminOnly(rt.services.Users, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			h := &userHandler{users: rt.services.Users, logger: rt.logger}
			r.Post("/new", h.NewUser)
			r.With(admin).Get("/all", h.AllUsers)
			r.Get("/{id}", h.GetUser)
			r.With(admin).Delete("/{id}", h.DeleteUser)
		})

		r.Route("/product", func(r chi.Router) {
			h := &productHandler{products: rt.services.Products, reviews: rt.services.Reviews, maxUploadSize: rt.maxUploadSize, logger: rt.logger}
			r.With(admin).Post("/new", h.NewProduct)
			r.Get("/latest", h.LatestProducts)
			r.Get("/all", h.SearchProducts)
			r.Get("/categories", h.Categories)
			r.With(admin).Get("/admin-products", h.AdminProducts)
			r.Get("/reviews/{id}", h.ProductReviews)
			r.Post("/review/new/{id}", h.NewReview)
			r.Delete("/review/{id}", h.DeleteReview)
			r.Get("/{id}", h.GetProduct)
			r.With(admin).Put("/{id}", h.UpdateProduct)
			r.With(admin).Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/order", func(r chi.Router) {
			h := &orderHandler{orders: rt.services.Orders, logger: rt.logger}
			r.Post("/new", h.NewOrder)
			r.Get("/my", h.MyOrders)
			r.With(admin).Get("/all", h.AllOrders)
			r.Get("/{id}", h.GetOrder)
			r.With(admin).Put("/{id}", h.ProcessOrder)
			r.With(admin).Delete("/{id}", h.DeleteOrder)
		})

		r.Route("/payment", func(r chi.Router) {
			h := &paymentHandler{payments: rt.services.Payments, logger: rt.logger}
			r.Post("/create", h.CreatePaymentIntent)
			r.Get("/discount", h.ApplyDiscount)
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/coupon/new", h.NewCoupon)
				r.Get("/coupon/all", h.AllCoupons)
				r.Get("/coupon/{id}", h.GetCoupon)
				r.Put("/coupon/{id}", h.UpdateCoupon)
				r.Delete("/coupon/{id}", h.DeleteCoupon)
			})
		})

		r.Route("/dashboard", func(r chi.Router) {
			h := &statsHandler{stats: rt.services.Stats, logger: rt.logger}
			r.Use(admin)
			r.Get("/stats", h.Stats)
			r.Get("/pie", h.PieCharts)
			r.Get("/bar", h.BarCharts)
			r.Get("/line", h.LineCharts)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
