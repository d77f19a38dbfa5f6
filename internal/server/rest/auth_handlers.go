package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/server/metrics"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool              `json:"success"`
	User    models.PublicUser `json:"user"`
}

type sessionUser struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role models.Role `json:"role"`
}

type meResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
}

// maxLoginBodyBytes caps the login request body; real credentials are far
// smaller.
const maxLoginBodyBytes = 4 << 10

func (s *Server) login(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLoginBodyBytes)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RecordLogin(metrics.LoginInvalid)
		abortWithError(c, http.StatusBadRequest, msgMissingCredentials)
		return
	}

	user, token, err := s.auth.Login(c.Request.Context(), req.Name, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorValidation):
		s.metrics.RecordLogin(metrics.LoginInvalid)
		abortWithError(c, http.StatusBadRequest, msgMissingCredentials)
		return
	case errors.Is(err, common.ErrorUnauthorized):
		s.metrics.RecordLogin(metrics.LoginUnauthorized)
		abortWithError(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	default:
		s.metrics.RecordLogin(metrics.LoginError)
		s.writeError(c, err)
		return
	}

	s.metrics.RecordLogin(metrics.LoginSuccess)
	s.setSessionCookie(c, token, s.auth.SessionMaxAge())
	c.JSON(http.StatusOK, loginResponse{Success: true, User: user.Public()})
}

// logout always succeeds. Tokens stay valid until they expire.
func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	claims, err := s.auth.Session(sessionToken(c))
	s.metrics.RecordSessionCheck(err == nil)
	if err != nil {
		c.JSON(http.StatusUnauthorized, meResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		Authenticated: true,
		User:          &sessionUser{ID: claims.UserID, Name: claims.Name, Role: claims.Role},
	})
}
