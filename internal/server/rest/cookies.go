package rest

import (
	"net/http"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) identityCookie(c *gin.Context) string {
	v, err := c.Cookie(common.AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return v
}

func (s *HTTPServer) csrfPair(c *gin.Context) (header, cookie string) {
	cookie, err := c.Cookie(common.CSRFCookieName)
	if err != nil {
		cookie = ""
	}
	return c.GetHeader(common.CSRFHeaderName), cookie
}

func (s *HTTPServer) setIdentityCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    common.BearerPrefix + token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (s *HTTPServer) clearIdentityCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
}

func (s *HTTPServer) clearCSRFCookie(c *gin.Context) {
	http.SetCookie(c.Writer, s.csrf.Clear())
}
