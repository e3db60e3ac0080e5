package simapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "tms_session"

type sessionClaims struct {
	jwt.RegisteredClaims
}

// issueSession signs a short JWT naming the user and sets it as the session
// cookie, so the simulator stays stateless across requests.
func (s *Server) issueSession(w http.ResponseWriter, u *user) {
	now := s.opts.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.SessionTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.SessionSecret))
	if err != nil {
		// Signing only fails on a broken secret; treat as a programming error.
		panic(err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(s.opts.SessionTTL),
	})
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// currentUser resolves the session cookie to a user record, or nil.
// Callers must hold s.mu.
func (s *Server) currentUser(r *http.Request) *user {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}

	now := s.opts.Now()
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &sessionClaims{}
	tok, err := parser.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.opts.SessionSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil
	}

	return s.findUserByUsername(claims.Subject)
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		u := s.currentUser(r)
		s.mu.Unlock()
		if u == nil {
			writeMessage(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		u := s.currentUser(r)
		s.mu.Unlock()
		if u == nil || !u.isAdmin {
			writeMessage(w, http.StatusForbidden, "Administrator privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
