// Package common contains shared constants and sentinel errors used across
// the todoauth components.
package common

// AccessTokenCookieName is the cookie carrying the identity token as
// "Bearer <jwt>".
const AccessTokenCookieName = "access_token"

// BearerPrefix precedes the signed token inside the identity cookie.
const BearerPrefix = "Bearer "

// CSRFCookieName is the cookie carrying the server-signed CSRF half.
const CSRFCookieName = "csrf_token"

// CSRFHeaderName is the request header that must echo the client CSRF half
// on state-changing requests.
const CSRFHeaderName = "X-CSRF-Token"

// MinPasswordLength is the shortest password accepted at signup, in
// characters.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt accepts, in bytes.
const MaxPasswordBytes = 72

// MaxTaskPageSize bounds how many tasks a single list call returns.
const MaxTaskPageSize = 100
