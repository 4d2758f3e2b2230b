// Package mockapi implements a mock proof-messenger verification server.
// It simulates realistic processing latencies and verification failure
// rates so the load generator has a stable, self-contained target.
package mockapi

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls the simulation.
type Config struct {
	Addr string
	// Seed for the latency/success randomness. 0 means non-deterministic.
	Seed int64
	// LatencyScale multiplies every simulated delay. 1.0 is realistic,
	// 0 disables sleeping (tests).
	LatencyScale float64
}

// Server is the mock verification API.
type Server struct {
	state    *serverState
	sim      *LatencySimulator
	server   *http.Server
	staticFS fs.FS
	handler  http.Handler
}

// NewServer builds the server and its routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		state: newServerState(),
		sim:   NewLatencySimulator(cfg.Seed, cfg.LatencyScale),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/verify-proof", s.handleVerifyProof)
	mux.HandleFunc("/api/verify-biometric-proof", s.handleVerifyBiometric)
	mux.HandleFunc("/api/batch-verify-proofs", s.handleBatchVerify)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.Handle("/metrics", promhttp.Handler())

	// Static front-end assets (catch-all for SPA)
	mux.Handle("/", s.handleStatic())

	// Middleware: Logging, Panic Recovery, Security Headers
	s.handler = withLogging(withRecovery(withSecureHeaders(mux)))

	addr := cfg.Addr
	if addr == "" {
		addr = ":8000"
	}
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return s
}

// SetStaticFS sets the filesystem for serving static web assets.
func (s *Server) SetStaticFS(fs fs.FS) {
	s.staticFS = fs
}

// Handler exposes the full middleware-wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start runs the HTTP server (blocking).
func (s *Server) Start() error {
	fmt.Printf(`{"level":"info","msg":"mock_server_starting","addr":"%s"}`+"\n", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleStatic serves static web assets with SPA fallback. WASM modules
// must be served with the application/wasm content type or the browser's
// streaming instantiation fails.
func (s *Server) handleStatic() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.staticFS == nil {
			http.NotFound(w, r)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")

		// Skip API routes
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/metrics" {
			http.NotFound(w, r)
			return
		}

		if path != "" {
			if file, err := s.staticFS.Open(path); err == nil {
				defer file.Close()
				if stat, err := file.Stat(); err == nil && !stat.IsDir() {
					switch {
					case strings.HasSuffix(path, ".wasm"):
						w.Header().Set("Content-Type", "application/wasm")
					case strings.HasSuffix(path, ".js"):
						w.Header().Set("Content-Type", "application/javascript")
					case strings.HasSuffix(path, ".css"):
						w.Header().Set("Content-Type", "text/css")
					case strings.HasSuffix(path, ".html"):
						w.Header().Set("Content-Type", "text/html")
					}
					io.Copy(w, file)
					return
				}
			}
		}

		// Fallback to index.html for SPA routing
		if indexFile, err := s.staticFS.Open("index.html"); err == nil {
			defer indexFile.Close()
			w.Header().Set("Content-Type", "text/html")
			io.Copy(w, indexFile)
			return
		}

		http.NotFound(w, r)
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				fmt.Printf(`{"level":"error","msg":"panic_recovered","error":"%v","path":"%s"}`+"\n", err, r.URL.Path)
				http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusWriter captures the HTTP status code for request logging
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		// Only log errors: full request logging drowns the console under
		// load-test traffic.
		if ww.status >= 400 {
			duration := time.Since(start)
			fmt.Printf(`{"level":"warn","msg":"http_request","method":"%s","path":"%s","status":%d,"duration_ms":%d}`+"\n",
				r.Method, r.URL.Path, ww.status, duration.Milliseconds())
		}
	})
}

func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")

		next.ServeHTTP(w, r)
	})
}
