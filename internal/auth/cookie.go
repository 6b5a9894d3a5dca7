package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/jaevor/go-nanoid"
)

const (
	StateCookieName = "oauth_state"
	stateTTL        = 10 * time.Minute
)

type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest reads and verifies the session cookie.
func SessionFromRequest(r *http.Request, cfg CookieConfig, secret string) (*SessionClaims, error) {
	cookie, err := r.Cookie(cfg.Name)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidSession
	}
	return VerifySessionToken(cookie.Value, secret)
}

var generateState = mustGenerator(32)

// mustGenerator builds a nanoid generator once. nanoid only fails on an
// out-of-range length, so a failure is a programming error.
func mustGenerator(length int) func() string {
	generate, err := nanoid.Standard(length)
	if err != nil {
		panic(err)
	}
	return generate
}

func NewState() string {
	return generateState()
}

func SetStateCookie(w http.ResponseWriter, state string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearStateCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CheckState reports whether the state echoed by the provider matches the
// one stored when the login started.
func CheckState(r *http.Request, state string) bool {
	cookie, err := r.Cookie(StateCookieName)
	if err != nil || cookie.Value == "" || state == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) == 1
}
