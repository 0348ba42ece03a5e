package router

import (
	"net/http"

	"smartwallet-fraud-shield/internal/interfaces/http/handler"
)

// Router holds all HTTP handlers
type Router struct {
	mux            *http.ServeMux
	authHandler    *handler.AuthHandler
	paymentHandler *handler.PaymentHandler
	uploadHandler  *handler.UploadHandler
	statsHandler   *handler.StatsHandler
	healthHandler  *handler.HealthHandler
}

// NewRouter creates a new router with all routes configured
func NewRouter(
	authHandler *handler.AuthHandler,
	paymentHandler *handler.PaymentHandler,
	uploadHandler *handler.UploadHandler,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) *Router {
	r := &Router{
		mux:            http.NewServeMux(),
		authHandler:    authHandler,
		paymentHandler: paymentHandler,
		uploadHandler:  uploadHandler,
		statsHandler:   statsHandler,
		healthHandler:  healthHandler,
	}
	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// Health endpoints
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)
	r.mux.HandleFunc("GET /ready", r.healthHandler.Ready)
	r.mux.HandleFunc("GET /live", r.healthHandler.Live)

	// Account endpoints
	r.mux.HandleFunc("POST /auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /auth/login", r.authHandler.Login)
	r.mux.HandleFunc("POST /auth/reset-password", r.authHandler.ResetPassword)

	// Payment endpoints
	r.mux.HandleFunc("POST /transaction/pay", r.paymentHandler.Pay)
	r.mux.HandleFunc("GET /transaction/history/{username}", r.paymentHandler.History)

	// Batch analysis
	r.mux.HandleFunc("POST /upload", r.uploadHandler.Upload)

	// Aggregates and observability
	r.mux.HandleFunc("GET /stats", r.statsHandler.Stats)
	r.mux.Handle("GET /metrics", handler.MetricsHandler())
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.mux.ServeHTTP(w, req)
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r
}
