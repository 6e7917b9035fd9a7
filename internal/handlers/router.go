package handlers

import (
	"net/http"
	"strings"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/logger"
	"marketplace/internal/metrics"
	"marketplace/internal/middleware"
	"marketplace/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	cfg       config.Config
	profiles  ProfileStore
	contracts ContractStore
	jobs      JobStore
	reports   ReportStore
	ledger    LedgerStore
	payments  PaymentService
	deposits  DepositService
	hub       *websocket.Hub
	log       *logger.Logger
}

func New(cfg config.Config, profiles ProfileStore, contracts ContractStore, jobs JobStore, reports ReportStore, ledger LedgerStore, payments PaymentService, deposits DepositService, hub *websocket.Hub, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		cfg:       cfg,
		profiles:  profiles,
		contracts: contracts,
		jobs:      jobs,
		reports:   reports,
		ledger:    ledger,
		payments:  payments,
		deposits:  deposits,
		hub:       hub,
		log:       log,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(instrument)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(h.cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", middleware.ProfileHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/ws/balances", h.WSBalances)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret, h.profiles, h.log))
		r.Get("/contracts/{id}", h.GetContract)
		r.Get("/contracts", h.ListContracts)
		r.Get("/jobs/unpaid", h.ListUnpaidJobs)
		r.Post("/jobs/{jobId}/pay", h.PayForJob)
		r.Post("/balances/deposit/{userId}", h.Deposit)
		r.Get("/balances/self-check", h.SelfCheck)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(middleware.NewAdminSet(h.cfg.AdminProfileIDs)))
			r.Get("/best-profession", h.BestProfession)
			r.Get("/best-clients", h.BestClients)
		})
	})
	return router
}

// instrument records request latency by route pattern so ids do not explode the label set.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
