// Package http exposes the REST API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fintrack/internal/auth"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// Config carries everything the server needs to run.
type Config struct {
	Port              string
	CORSOrigins       []string
	RequestsPerMinute int
}

type Server struct {
	router      *chi.Mux
	server      *http.Server
	authService *auth.Service
	txService   *services.TransactionService
	stService   *services.StatementService
	rwService   *services.RewardsService
	adminStore  adminStore
	readyCheck  func(ctx context.Context) error
	limiter     *rateLimiter
	logger      *log.Logger
	structured  *log.StructuredLogger
}

// Deps groups the collaborators injected into the server.
type Deps struct {
	Auth         *auth.Service
	Transactions *services.TransactionService
	Statements   *services.StatementService
	Rewards      *services.RewardsService
	AdminStore   adminStore
	ReadyCheck   func(ctx context.Context) error
	Logger       *log.Logger
}

func NewServer(cfg Config, deps Deps) *Server {
	logger := deps.Logger.WithComponent(log.ComponentHTTP)

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 120
	}

	s := &Server{
		router:      chi.NewRouter(),
		authService: deps.Auth,
		txService:   deps.Transactions,
		stService:   deps.Statements,
		rwService:   deps.Rewards,
		adminStore:  deps.AdminStore,
		readyCheck:  deps.ReadyCheck,
		limiter:     newRateLimiter(rpm),
		logger:      logger,
		structured:  log.NewStructuredLogger(logger),
	}

	s.setupMiddleware(cfg)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(cfg Config) {
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(log.Middleware(s.logger))
	s.router.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return chimiddleware.GetReqID(r.Context())
	}))
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(s.requestLogger)
	s.router.Use(s.rateLimit)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/logout", s.handleLogout)
				r.Get("/me", s.handleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", s.handleListTransactions)
				r.Post("/", s.handleCreateTransaction)
				r.Get("/stats", s.handleTransactionStats)
				r.Get("/{id}", s.handleGetTransaction)
				r.Put("/{id}", s.handleUpdateTransaction)
				r.Delete("/{id}", s.handleDeleteTransaction)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/breakdown", s.handleBreakdown)
				r.Get("/periods", s.handlePeriods)
				r.Get("/heatmap", s.handleHeatmap)
				r.Get("/pie", s.handlePie)
			})

			r.Route("/statements", func(r chi.Router) {
				r.Get("/", s.handleListStatements)
				r.Post("/", s.handleUploadStatement)
				r.Get("/{id}", s.handleGetStatement)
			})

			r.Route("/vouchers", func(r chi.Router) {
				r.Get("/", s.handleListVouchers)
				r.Post("/redeem", s.handleRedeemVoucher)
			})

			r.Route("/rewards", func(r chi.Router) {
				r.Get("/ledger", s.handleLedger)
				r.Get("/redemptions", s.handleRedemptions)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/stats", s.handleAdminStats)
				r.Get("/users", s.handleListUsers)
				r.Put("/users/{id}/active", s.handleSetUserActive)
				r.Post("/vouchers", s.handleCreateVoucher)
			})
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		if err := s.readyCheck(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
