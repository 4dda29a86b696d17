package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tasks-dev/tasks/frontend/internal/session"
	"github.com/tasks-dev/tasks/frontend/internal/state"
	"github.com/tasks-dev/tasks/shared/jwt"
	"github.com/tasks-dev/tasks/shared/logger"
)

const sessionCookieName = "board_session"

// Session identifies the browser by a signed cookie and attaches the
// session's board store to the request context.
type Session struct {
	jwt           jwt.JwtService
	registry      *session.Registry
	secureCookies bool
	ttl           time.Duration
}

func NewSession(jwtService jwt.JwtService, registry *session.Registry, secureCookies bool, ttl time.Duration) *Session {
	return &Session{
		jwt:           jwtService,
		registry:      registry,
		secureCookies: secureCookies,
		ttl:           ttl,
	}
}

// Handler starts a new session when the cookie is missing, expired or forged.
func (s *Session) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				id, err := s.jwt.DecodeToken(cookie.Value)
				switch {
				case err == nil:
					sessionID = id
				case errors.Is(err, jwt.ErrSessionExpired):
					s.dropExpired(r.Context(), id)
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				token, err := s.jwt.NewToken(sessionID)
				if err != nil {
					logger.Log.Error("failed to issue session", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					Secure:   s.secureCookies,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(s.ttl.Seconds()),
				})
				logger.Log.Debug("new session", "session", sessionID)
			}

			ctx := session.WithID(r.Context(), sessionID)
			ctx = state.WithStore(ctx, s.registry.Get(ctx, sessionID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// dropExpired releases the store and stored pointer of a session whose
// cookie expired. The browser continues under a new session.
func (s *Session) dropExpired(ctx context.Context, sessionID string) {
	if err := s.registry.Drop(ctx, sessionID); err != nil {
		logger.Log.Warn("failed to drop expired session", "session", sessionID, "error", err)
		return
	}
	logger.Log.Debug("expired session dropped", "session", sessionID)
}
