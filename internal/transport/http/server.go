package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"placeswipe/internal/app"
	"placeswipe/internal/config"
	"placeswipe/internal/metrics"
	"placeswipe/internal/transport/ws"
)

// maxUploadSize bounds spreadsheet imports
const maxUploadSize = 10 << 20

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	session *app.Session
	config  *config.Config
	logger  *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, session *app.Session, logger *slog.Logger) *Server {
	s := &Server{
		session: session,
		config:  cfg,
		logger:  logger,
	}

	// Set up routes
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	// a nearby lookup may take up to the places timeout
	writeTimeout := 15 * time.Second
	if t := cfg.Places.Timeout + 5*time.Second; t > writeTimeout {
		writeTimeout = t
	}

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.middleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// API routes
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	mux.HandleFunc("POST /api/list/sample", s.handleLoadSample)
	mux.HandleFunc("POST /api/list/import", s.handleImportList)
	mux.HandleFunc("POST /api/places/nearby", s.handleFindNearby)
	mux.HandleFunc("POST /api/location", s.handleUseLocation)

	mux.HandleFunc("POST /api/round", s.handleStartRound)
	mux.HandleFunc("POST /api/round/vote", s.handleVote)
	mux.HandleFunc("POST /api/round/reset", s.handleResetRound)
	mux.HandleFunc("GET /api/round/likes", s.handleLikes)
	mux.HandleFunc("GET /api/round/likes.xlsx", s.handleLikesSheet)
	mux.HandleFunc("POST /api/round/likes/copy", s.handleCopyLikes)
	mux.HandleFunc("POST /api/overlap", s.handleOverlap)

	mux.Handle("GET /metrics", metrics.Handler())

	// WebSocket
	wsHandler := ws.NewHandler(s.session, s.logger)
	mux.Handle("GET /ws", wsHandler)
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// middleware wraps the handler with logging and other middleware
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Add CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		level := slog.LevelInfo
		if r.URL.Path == "/metrics" && !s.config.IsDevelopment() {
			level = slog.LevelDebug
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
