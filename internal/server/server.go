package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"spincycle/internal/auth"
	"spincycle/internal/handler"
	"spincycle/internal/machine"
	"spincycle/internal/middleware"
	"spincycle/internal/prefs"
	"spincycle/internal/status"
	"spincycle/internal/store"
	ws "spincycle/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	authH          *handler.AuthHandler
	machineH       *handler.MachineHandler
	historyH       *handler.HistoryHandler
	householdH     *handler.HouseholdHandler
	tokenStore     *store.TokenStore
	userStore      *store.UserStore
	householdStore *store.HouseholdStore
	rateLimiter    *middleware.RateLimiter
	logger         *slog.Logger
}

func New(db *sql.DB, mailer auth.Mailer, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	accountStore := store.NewAccountStore(db)
	userStore := store.NewUserStore(db)
	householdStore := store.NewHouseholdStore(db)
	sessionStore := store.NewSessionStore(db)
	tokenStore := store.NewTokenStore(db)

	// One device-local preference store backs all household status caches,
	// namespaced per code.
	deviceStore := prefs.NewSQLite(db)
	caches := func(householdCode string) *status.Cache {
		return status.NewCache(prefs.Namespaced(deviceStore, householdCode+"."))
	}

	registry := machine.NewRegistry(sessionStore, caches, func(c machine.Change) {
		hub.Broadcast(c.HouseholdCode, ws.NewMessage("machine", c.Action, c.Session.SessionNumber, map[string]any{
			"user_name":  c.Session.UserName,
			"start_time": c.Session.StartTime,
			"end_time":   c.Session.EndTime,
			"status":     c.Session.Status,
		}))
	}, logger.With("component", "machine"))

	authSvc := auth.NewService(accountStore, userStore, householdStore, tokenStore, mailer, logger.With("component", "auth"))

	return &Server{
		db:             db,
		hub:            hub,
		authH:          handler.NewAuthHandler(authSvc, logger.With("component", "auth_handler")),
		machineH:       handler.NewMachineHandler(registry, caches, logger.With("component", "machine_handler")),
		historyH:       handler.NewHistoryHandler(sessionStore, logger.With("component", "history")),
		householdH:     handler.NewHouseholdHandler(householdStore, logger.With("component", "household")),
		tokenStore:     tokenStore,
		userStore:      userStore,
		householdStore: householdStore,
		rateLimiter:    middleware.NewRateLimiter(),
		logger:         logger,
	}
}

// TokenStore returns the token store for cleanup tasks.
func (s *Server) TokenStore() *store.TokenStore {
	return s.tokenStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /api/register", s.rateLimited(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimited(s.authH.Login))
	outerMux.HandleFunc("POST /api/password-reset", s.rateLimited(s.authH.PasswordReset))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("POST /api/logout", s.authH.Logout)
	protectedMux.HandleFunc("DELETE /api/account", s.authH.DeleteAccount)
	protectedMux.HandleFunc("POST /api/machine/start", s.machineH.Start)
	protectedMux.HandleFunc("POST /api/machine/stop", s.machineH.Stop)
	protectedMux.HandleFunc("GET /api/machine/status", s.machineH.Status)
	protectedMux.HandleFunc("POST /api/machine/refresh", s.machineH.Refresh)
	protectedMux.HandleFunc("GET /api/history", s.historyH.List)
	protectedMux.HandleFunc("GET /api/household", s.householdH.Get)
	protectedMux.HandleFunc("GET /api/household/members", s.householdH.ListMembers)
	protectedMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	authMiddleware := middleware.RequireAuth(s.tokenStore, s.userStore, s.householdStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
