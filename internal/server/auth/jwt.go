// Package auth issues and verifies identity tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity assertion carried by an access token. The subject
// is the account email.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a HS256 token for subject, issued at issuedAt and
// expiring validityDuration later.
func GenerateToken(subject string, secretKey []byte, issuedAt time.Time, validityDuration time.Duration) (string, error) {
	return signToken(subject, secretKey, jwt.NewNumericDate(issuedAt), jwt.NewNumericDate(issuedAt.Add(validityDuration)))
}

func signToken(subject string, secretKey []byte, issuedAt, expiresAt *jwt.NumericDate) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString against secretKey as of now and returns
// its claims. The signature is checked before any claim, so a token signed
// with another key is always common.ErrTokenInvalid, never expired.
func ParseToken(tokenString string, secretKey []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrTokenInvalid
	}

	return claims, nil
}

// TokenCodec binds the process-wide signing key, token lifetime and clock.
type TokenCodec struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

// NewTokenCodec returns a codec signing with secretKey and issuing tokens
// valid for validity.
func NewTokenCodec(secretKey []byte, validity time.Duration) *TokenCodec {
	return &TokenCodec{secretKey: secretKey, validity: validity, now: time.Now}
}

// WithClock returns a copy of the codec reading time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

// Issue mints a token for subject valid from now.
func (c *TokenCodec) Issue(subject string) (string, error) {
	return GenerateToken(subject, c.secretKey, c.now(), c.validity)
}

// Verify returns the subject of a valid token, or common.ErrTokenExpired /
// common.ErrTokenInvalid.
func (c *TokenCodec) Verify(token string) (string, error) {
	claims, err := c.Claims(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Renew verifies token and signs a replacement for the same subject. The
// replacement always expires strictly later than token: NumericDate keeps
// whole seconds, so a renewal within the second the old token was issued
// moves the expiry one tick past the old one.
func (c *TokenCodec) Renew(token string) (newToken, subject string, err error) {
	claims, err := c.Claims(token)
	if err != nil {
		return "", "", err
	}

	now := c.now()
	expiresAt := jwt.NewNumericDate(now.Add(c.validity))
	if !expiresAt.After(claims.ExpiresAt.Time) {
		expiresAt = jwt.NewNumericDate(claims.ExpiresAt.Add(jwt.TimePrecision))
	}

	newToken, err = signToken(claims.Subject, c.secretKey, jwt.NewNumericDate(now), expiresAt)
	if err != nil {
		return "", "", err
	}
	return newToken, claims.Subject, nil
}

// Claims returns the verified claims of token.
func (c *TokenCodec) Claims(token string) (*Claims, error) {
	return ParseToken(token, c.secretKey, c.now())
}
