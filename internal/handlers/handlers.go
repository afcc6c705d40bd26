package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/smmpanel/docs"
	"github.com/GlebRadaev/smmpanel/internal/handlers/api"
	authhandlers "github.com/GlebRadaev/smmpanel/internal/handlers/auth"
	balancehandlers "github.com/GlebRadaev/smmpanel/internal/handlers/balance"
	cataloghandlers "github.com/GlebRadaev/smmpanel/internal/handlers/catalog"
	ordershandlers "github.com/GlebRadaev/smmpanel/internal/handlers/orders"
	referralhandlers "github.com/GlebRadaev/smmpanel/internal/handlers/referral"
	"github.com/GlebRadaev/smmpanel/internal/metrics"
	"github.com/GlebRadaev/smmpanel/internal/service"
	"github.com/GlebRadaev/smmpanel/pkg/auth"
	"github.com/GlebRadaev/smmpanel/pkg/logger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	GenerateAPIKey(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	PlaceOrder(w http.ResponseWriter, r *http.Request)
	PlaceMassOrder(w http.ResponseWriter, r *http.Request)
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type CatalogHandler interface {
	ListServices(w http.ResponseWriter, r *http.Request)
	GetService(w http.ResponseWriter, r *http.Request)
}

type ReferralHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
	TrackVisit(w http.ResponseWriter, r *http.Request)
}

type PartnerHandler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler     AuthHandler
	OrderHandler    OrderHandler
	BalanceHandler  BalanceHandler
	CatalogHandler  CatalogHandler
	ReferralHandler ReferralHandler
	PartnerHandler  PartnerHandler
	JWTService      auth.JWTServiceInterface
}

func New(s *service.Services, currency string) *Handlers {
	return &Handlers{
		AuthHandler:     authhandlers.New(s.AuthService),
		OrderHandler:    ordershandlers.New(s.OrderService),
		BalanceHandler:  balancehandlers.New(s.BalanceService, currency),
		CatalogHandler:  cataloghandlers.New(s.CatalogService),
		ReferralHandler: referralhandlers.New(s.ReferralService),
		PartnerHandler:  api.New(s.AuthService, s.OrderService, s.CatalogService, s.BalanceService, currency),
		JWTService:      s.JWTService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		logger.Middleware,
		metrics.Middleware,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	authorized := auth.Middleware(h.JWTService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authorized)
				r.Post("/api-key", h.AuthHandler.GenerateAPIKey)
				r.Get("/balance", h.BalanceHandler.GetBalance)
				r.Get("/transactions", h.BalanceHandler.GetTransactions)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authorized)
			r.Post("/", h.OrderHandler.PlaceOrder)
			r.Post("/mass", h.OrderHandler.PlaceMassOrder)
			r.Get("/", h.OrderHandler.GetOrders)
			r.Get("/{id}", h.OrderHandler.GetOrder)
		})

		r.Route("/services", func(r chi.Router) {
			r.Use(authorized)
			r.Get("/", h.CatalogHandler.ListServices)
			r.Get("/{id}", h.CatalogHandler.GetService)
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Post("/track/{code}", h.ReferralHandler.TrackVisit)
			r.With(authorized).Get("/stats", h.ReferralHandler.Stats)
		})

		r.Post("/v2", h.PartnerHandler.Handle)
	})

	return r
}
