package middleware

import (
	"net/http"

	"github.com/tasks-dev/tasks/shared/csrf"
	internal_errors "github.com/tasks-dev/tasks/shared/errors"
	"github.com/tasks-dev/tasks/shared/logger"
	"github.com/tasks-dev/tasks/shared/utils"
)

// CSRFConfig holds CSRF middleware configuration
type CSRFConfig struct {
	SecureCookies bool // Use Secure flag on cookies (requires HTTPS)
}

// GenerateCSRFToken makes sure the client holds a CSRF cookie. The cookie is
// readable by scripts: the UI copies it into the X-CSRFToken header.
func GenerateCSRFToken(config CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(csrf.CookieName)
			if err != nil || cookie.Value == "" {
				token, err := csrf.GenerateToken()
				if err != nil {
					logger.Log.Error("failed to generate CSRF token", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     csrf.CookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   config.SecureCookies,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   86400, // 24 hours
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateCSRFToken rejects mutating requests whose X-CSRFToken header does
// not match the CSRF cookie.
func ValidateCSRFToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut &&
				r.Method != http.MethodPatch && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(csrf.CookieName)
			if err != nil {
				logger.Log.Warn("CSRF token cookie missing", "path", r.URL.Path)
				utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "CSRF token missing", StatusCode: http.StatusForbidden})
				return
			}

			if !csrf.ValidateToken(cookie.Value, r.Header.Get(csrf.HeaderName)) {
				logger.Log.Warn("CSRF token validation failed", "path", r.URL.Path)
				utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: "CSRF token invalid", StatusCode: http.StatusForbidden})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
