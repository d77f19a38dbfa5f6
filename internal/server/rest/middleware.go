package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys for request-scoped values in gin.Context.
const (
	ctxKeyRequestID = "request_id"
	ctxKeyClaims    = "session_claims"
)

// requestID propagates X-Request-ID, generating one when absent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		s.metrics.RecordHTTPRequest(c.Request.Method, route, status, elapsed)
		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", elapsed,
			"request_id", c.GetString(ctxKeyRequestID))
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered",
			"path", c.Request.URL.Path, "request_id", c.GetString(ctxKeyRequestID), "panic", rec)
		abortWithError(c, http.StatusInternalServerError, msgInternal)
	})
}

// requireSession rejects requests without a valid session cookie and
// stores the decoded claims for later handlers.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.auth.Session(sessionToken(c))
		s.metrics.RecordSessionCheck(err == nil)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		c.Set(ctxKeyClaims, claims)
		c.Next()
	}
}

// requireInventoryEditor allows roles that may change the inventory.
// It must run after requireSession.
func requireInventoryEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		if !claims.Role.CanEditInventory() {
			abortWithError(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

func sessionClaims(c *gin.Context) (auth.Claims, bool) {
	v, ok := c.Get(ctxKeyClaims)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}
