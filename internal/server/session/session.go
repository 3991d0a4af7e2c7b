// Package session decides whether a request carries a live identity and
// mints the replacement token that slides the session forward.
package session

import (
	"strings"

	"github.com/dmitrijs2005/todoauth/internal/common"
)

// TokenCodec verifies identity tokens and renews them with a later expiry.
type TokenCodec interface {
	Verify(token string) (string, error)
	Renew(token string) (newToken, subject string, err error)
}

// CSRFValidator checks a double-submit token pair.
type CSRFValidator interface {
	Validate(headerValue, cookieValue string) error
}

// Guard holds no per-session state; every decision is made from the
// presented cookie and header values.
type Guard struct {
	tokens TokenCodec
	csrf   CSRFValidator
}

// NewGuard returns a Guard backed by tokens and csrf.
func NewGuard(tokens TokenCodec, csrf CSRFValidator) *Guard {
	return &Guard{tokens: tokens, csrf: csrf}
}

// VerifyOnly returns the subject of identityCookie without rotating it.
// An empty cookie or one without the bearer scheme is common.ErrNoSession.
func (g *Guard) VerifyOnly(identityCookie string) (string, error) {
	token, ok := strings.CutPrefix(identityCookie, common.BearerPrefix)
	if !ok || token == "" {
		return "", common.ErrNoSession
	}

	return g.tokens.Verify(token)
}

// VerifyAndRotate verifies identityCookie and issues a fresh token for the
// same subject, expiring strictly later than the presented one.
func (g *Guard) VerifyAndRotate(identityCookie string) (newToken, subject string, err error) {
	token, ok := strings.CutPrefix(identityCookie, common.BearerPrefix)
	if !ok || token == "" {
		return "", "", common.ErrNoSession
	}

	newToken, subject, err = g.tokens.Renew(token)
	if err != nil {
		return "", "", err
	}

	return newToken, subject, nil
}

// VerifyCSRFAndRotate guards state-changing requests. The CSRF pair is
// checked first and nothing is minted unless both checks pass.
func (g *Guard) VerifyCSRFAndRotate(identityCookie, csrfHeader, csrfCookie string) (newToken, subject string, err error) {
	if err := g.ValidateCSRF(csrfHeader, csrfCookie); err != nil {
		return "", "", err
	}

	return g.VerifyAndRotate(identityCookie)
}

// ValidateCSRF checks only the CSRF pair, for requests made before an
// identity exists.
func (g *Guard) ValidateCSRF(csrfHeader, csrfCookie string) error {
	return g.csrf.Validate(csrfHeader, csrfCookie)
}
