// internal/auth/auth.go
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName carries the admin session token.
	CookieName = "admin-token"
	// TokenTTL is how long an admin session lasts.
	TokenTTL = 24 * time.Hour
)

var (
	ErrNotConfigured   = errors.New("admin password not configured")
	ErrInvalidPassword = errors.New("invalid password")
)

type claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256 admin tokens.
type Authenticator struct {
	password     string
	secret       []byte
	secureCookie bool
	now          func() time.Time
}

// New creates an Authenticator. An empty secret is replaced by a random one,
// which invalidates sessions on restart.
func New(password, secret string, secureCookie bool) (*Authenticator, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
	}
	return &Authenticator{
		password:     password,
		secret:       key,
		secureCookie: secureCookie,
		now:          time.Now,
	}, nil
}

// Login checks password and returns a signed token with its expiry.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if a.password == "" {
		return "", time.Time{}, ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) != 1 {
		return "", time.Time{}, ErrInvalidPassword
	}

	issued := a.now()
	expires := issued.Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, expires, nil
}

// Verify reports whether token is a valid, unexpired admin token.
func (a *Authenticator) Verify(token string) bool {
	if token == "" {
		return false
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	return err == nil && parsed.Valid && c.Admin
}

// Authenticated reports whether r carries a valid admin cookie.
func (a *Authenticator) Authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}
	return a.Verify(cookie.Value)
}

func (a *Authenticator) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware rejects requests without a valid admin cookie.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Authenticated(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized access"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
