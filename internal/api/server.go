package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nichelabs/nichenav/internal/auth"
	"github.com/nichelabs/nichenav/internal/billing"
	"github.com/nichelabs/nichenav/internal/database"
	"github.com/nichelabs/nichenav/internal/events"
	"github.com/nichelabs/nichenav/internal/generator"
	"github.com/nichelabs/nichenav/internal/metrics"
	"github.com/nichelabs/nichenav/pkg/config"
)

// Server represents the HTTP API server
type Server struct {
	db        *database.Database
	auth      *auth.Manager
	generator *generator.Generator
	billing   *billing.Service
	hub       *events.Hub
	config    *config.Config
	metrics   *metrics.Metrics
}

// NewServer creates a new API server
func NewServer(db *database.Database, am *auth.Manager, gen *generator.Generator, bs *billing.Service, hub *events.Hub, cfg *config.Config) *Server {
	return &Server{
		db:        db,
		auth:      am,
		generator: gen,
		billing:   bs,
		hub:       hub,
		config:    cfg,
		metrics:   metrics.NewMetrics(),
	}
}

// SetupRoutes configures HTTP routes
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	// Auth
	mux.HandleFunc("/api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("/api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("/api/v1/auth/password", s.handleChangePassword)
	mux.HandleFunc("/api/v1/auth/me", s.handleMe)

	// Ideas
	mux.HandleFunc("/api/v1/ideas", s.handleIdeas)
	mux.HandleFunc("/api/v1/ideas/search", s.handleSearchIdeas)
	mux.HandleFunc("/api/v1/ideas/statistics", s.handleStatistics)
	mux.HandleFunc("/api/v1/ideas/", s.handleIdea)

	// Generation
	mux.HandleFunc("/api/v1/generate/ideas", s.handleGenerateIdeas)

	// Subscription and billing
	mux.HandleFunc("/api/v1/subscription", s.handleSubscription)
	mux.HandleFunc("/api/v1/subscription/checkout", s.handleCheckout)
	mux.HandleFunc("/api/v1/subscription/portal", s.handlePortal)
	mux.HandleFunc("/api/v1/billing/pricing", s.handlePricing)
	mux.HandleFunc("/api/v1/billing/webhook", s.handleWebhook)

	// Export and analytics
	mux.HandleFunc("/api/v1/export", s.handleExport)
	mux.HandleFunc("/api/v1/analytics", s.handleAnalytics)

	// Real-time events
	mux.HandleFunc("/api/v1/events/ws", s.handleEventsWS)

	// Apply middleware
	handler := s.loggingMiddleware(mux)
	handler = s.corsMiddleware(handler)
	handler = s.authMiddleware(handler)

	return handler
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	status := "ok"
	code := http.StatusOK
	if err := s.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	s.respondJSON(w, code, map[string]string{"status": status})
}

// Middleware

type contextKey string

const claimsKey contextKey = "claims"

// publicPaths are reachable without a token
var publicPaths = map[string]bool{
	"/api/v1/health":          true,
	"/metrics":                true,
	"/api/v1/auth/register":   true,
	"/api/v1/auth/login":      true,
	"/api/v1/billing/pricing": true,
	"/api/v1/billing/webhook": true,
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests and records metrics
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The websocket handler hijacks the connection; wrapping its
		// ResponseWriter would break the upgrade.
		if r.URL.Path == "/api/v1/events/ws" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		s.metrics.RecordHTTPRequest(r.Method, r.URL.Path, strconv.Itoa(rec.status), duration.Seconds())
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, duration)
	})
}

// corsMiddleware handles CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.config.Security.AllowedOrigins) > 0 {
			origin := r.Header.Get("Origin")
			for _, allowedOrigin := range s.config.Security.AllowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
					break
				}
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates the bearer token and stores the claims in
// the request context. The websocket endpoint accepts the token as a
// query parameter because browsers cannot set headers on upgrades.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" && r.URL.Path == "/api/v1/events/ws" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			s.respondError(w, http.StatusUnauthorized, "Missing token")
			return
		}

		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// claimsFrom returns the authenticated user's claims
func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// Helper functions

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// parseJSON parses JSON request body
func (s *Server) parseJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// extractID extracts the first path segment after a prefix
func (s *Server) extractID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	id = strings.TrimPrefix(id, "/")
	id = strings.TrimSuffix(id, "/")

	parts := strings.Split(id, "/")
	if len(parts) > 0 {
		return parts[0]
	}
	return id
}

// subResource returns the path segment after the ID, if any
func (s *Server) subResource(path, prefix, id string) string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.TrimPrefix(rest, "/")
	rest = strings.TrimPrefix(rest, id)
	rest = strings.Trim(rest, "/")
	return rest
}
