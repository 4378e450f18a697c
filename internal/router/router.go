package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ruchira-pos/api/internal/config"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/ruchira-pos/api/internal/enum"
	"github.com/ruchira-pos/api/internal/handler"
	mw "github.com/ruchira-pos/api/internal/middleware"
	"github.com/ruchira-pos/api/internal/service"
	"github.com/ruchira-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // admin dev server
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		// Catalog
		catalogHandler := handler.NewCatalogHandler(queries)
		r.Route("/categories", catalogHandler.RegisterCategoryRoutes)
		r.Route("/products", catalogHandler.RegisterProductRoutes)

		// Customers
		customerHandler := handler.NewCustomerHandler(queries)
		r.Route("/customers", customerHandler.RegisterRoutes)

		// Payment methods (admin and manager manage the list)
		paymentHandler := handler.NewPaymentHandler(orderService, queries, hub)
		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", paymentHandler.ListMethods)
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleManager))
				r.Post("/", paymentHandler.CreateMethod)
				r.Patch("/{id}", paymentHandler.UpdateMethod)
			})
		})

		// Orders, with payments nested
		orderHandler := handler.NewOrderHandler(orderService, queries, hub, cfg.StoreName)
		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)
			r.Route("/{id}/payments", paymentHandler.RegisterOrderRoutes)
		})

		// Back office: staff, expenses, reports
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.UserRoleAdmin, enum.UserRoleManager))

			staffHandler := handler.NewStaffHandler(queries)
			r.Route("/staff", staffHandler.RegisterRoutes)

			expenseHandler := handler.NewExpenseHandler(queries)
			r.Route("/expenses", expenseHandler.RegisterRoutes)

			reportHandler := handler.NewReportHandler(queries)
			r.Route("/reports", reportHandler.RegisterRoutes)
		})
	})

	return r
}
