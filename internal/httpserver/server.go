package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shelfsync/internal/catalog"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	limiter    *rateLimiter
	cancel     context.CancelFunc
}

// New builds the storefront server.
func New(addr string, deps Deps) (*Server, error) {
	router, limiter, err := buildRouter(deps)
	if err != nil {
		return nil, err
	}

	base, cancel := context.WithCancel(context.Background())
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	return &Server{
		httpServer: httpSrv,
		logger:     deps.logger(),
		limiter:    limiter,
		cancel:     cancel,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server. Request contexts are cancelled
// first so open event streams return.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if s.limiter != nil {
		s.limiter.Stop()
	}
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Catalog == nil || deps.Catalog.State() != catalog.Loaded {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "catalog loading"})
			return
		}
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
