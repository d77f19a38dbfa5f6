package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the cookie immediately. A negative MaxAge is
// written as "Max-Age=0".
func (s *Server) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionToken(c *gin.Context) string {
	token, err := c.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}
