// Package csrf implements the double-submit synchronizer token. A random
// token is handed to the client in the response body while a copy signed
// under the CSRF secret travels in a cookie; a state-changing request must
// present both and they must agree.
package csrf

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/gorilla/securecookie"
)

const tokenBytes = 32

// Guard issues and validates CSRF token pairs. It is safe for concurrent use.
type Guard struct {
	codec  *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
}

// NewGuard returns a Guard signing with secretKey. Pairs older than maxAge
// are rejected. secure controls the Secure attribute of issued cookies.
func NewGuard(secretKey []byte, maxAge time.Duration, secure bool) *Guard {
	codec := securecookie.New(secretKey, nil)
	codec.MaxAge(int(maxAge.Seconds()))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Guard{codec: codec, maxAge: maxAge, secure: secure}
}

// IssuePair generates a fresh token. clientHalf goes to the caller in the
// response body, serverHalf is the signed form to store in the cookie.
func (g *Guard) IssuePair() (clientHalf, serverHalf string, err error) {
	clientHalf, err = common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", "", err
	}

	serverHalf, err = g.codec.Encode(common.CSRFCookieName, clientHalf)
	if err != nil {
		return "", "", err
	}

	return clientHalf, serverHalf, nil
}

// Validate checks headerValue against the signed cookieValue.
// It returns common.ErrCsrfMissing when either is empty and
// common.ErrCsrfInvalid when the cookie fails verification, has expired, or
// does not carry headerValue.
func (g *Guard) Validate(headerValue, cookieValue string) error {
	if headerValue == "" || cookieValue == "" {
		return common.ErrCsrfMissing
	}

	var expected string
	if err := g.codec.Decode(common.CSRFCookieName, cookieValue, &expected); err != nil {
		return common.ErrCsrfInvalid
	}

	if subtle.ConstantTimeCompare([]byte(expected), []byte(headerValue)) != 1 {
		return common.ErrCsrfInvalid
	}

	return nil
}

// Cookie wraps serverHalf in the cookie that carries it to the client.
func (g *Guard) Cookie(serverHalf string) *http.Cookie {
	return &http.Cookie{
		Name:     common.CSRFCookieName,
		Value:    serverHalf,
		Path:     "/",
		MaxAge:   int(g.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteNoneMode,
	}
}

// Clear returns a cookie that makes the client drop the CSRF cookie.
func (g *Guard) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     common.CSRFCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteNoneMode,
	}
}
