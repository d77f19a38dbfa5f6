// Package rest exposes the PLMS HTTP API: cookie-based session
// authentication and the tool inventory.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/plms/internal/logging"
	"github.com/dmitrijs2005/plms/internal/server/metrics"
	"github.com/dmitrijs2005/plms/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address       string
	logger        logging.Logger
	auth          *services.AuthService
	tools         *services.ToolService
	documents     *services.DocumentService
	metrics       *metrics.Metrics
	secureCookies bool
	engine        *gin.Engine
}

// NewServer builds the router. secureCookies sets the Secure flag on the
// session cookie and is meant for production.
func NewServer(a string, l logging.Logger, as *services.AuthService, ts *services.ToolService,
	ds *services.DocumentService, m *metrics.Metrics, secureCookies bool) *Server {
	s := &Server{
		address:       a,
		logger:        l.With("module", "http_server"),
		auth:          as,
		tools:         ts,
		documents:     ds,
		metrics:       m,
		secureCookies: secureCookies,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.accessLog(), s.recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/logout", s.logout)
	authGroup.GET("/me", s.me)

	tools := api.Group("/tools", s.requireSession())
	tools.GET("", s.listTools)
	tools.GET("/:id/document", s.documentURL)

	editors := tools.Group("", requireInventoryEditor())
	editors.POST("", s.createTool)
	editors.POST("/:id/document", s.documentUploadURL)
	editors.PUT("/:id/document", s.commitDocument)

	return r
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
