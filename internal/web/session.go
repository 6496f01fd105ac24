package web

import (
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "crescendo_session"

// ErrNoSession reports a request without a valid session cookie.
var ErrNoSession = errors.New("web: no valid session")

// SessionManager issues and verifies the signed session cookie that carries a
// user's hash between the login, connect and callback pages. The cookie is an
// HS256 JWT so the server stays stateless: no session table, the signature is
// the proof.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager builds a manager signing with secret. An empty secret is
// replaced with a random per-boot key, which invalidates sessions across
// restarts but is fine for single-instance demos.
func NewSessionManager(secret string) *SessionManager {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic("web: cannot read from crypto/rand: " + err.Error())
		}
	}

	return &SessionManager{
		secret: key,
		ttl:    24 * time.Hour,
	}
}

// Issue sets the session cookie for userHash on the response.
func (m *SessionManager) Issue(w http.ResponseWriter, userHash string) error {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userHash,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		// Lax so the cookie survives the top-level redirect back from the
		// provider's authorize page.
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// UserHash extracts the user hash from the request's session cookie.
func (m *SessionManager) UserHash(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", ErrNoSession
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrNoSession
	}

	return claims.Subject, nil
}

// Clear expires the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
