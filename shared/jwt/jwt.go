package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	internal_errors "github.com/tasks-dev/tasks/shared/errors"
	"github.com/tasks-dev/tasks/shared/logger"
)

// JwtService signs the session cookie. The subject is the session id the
// registry keys board stores by.
type JwtService interface {
	NewToken(sessionID string) (string, error)
	DecodeToken(jwtStr string) (string, error)
}

// ErrSessionExpired is returned with the session id of a correctly signed
// token that has expired, so its session can be cleaned up.
var ErrSessionExpired = errors.New("session expired")

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("can't sign session token", "error", err)
		return "", fmt.Errorf("can't create token: %w", err)
	}

	return tokenString, nil
}

// DecodeToken verifies the signature and expiry and returns the session id.
// An expired token yields its id together with ErrSessionExpired.
func (j *Jwt) DecodeToken(jwtStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(jwtStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) && claims.Subject != "" {
		return claims.Subject, ErrSessionExpired
	}
	if err != nil {
		logger.Log.Debug("session token rejected", "error", err)
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}

	if !token.Valid || claims.Subject == "" {
		return "", &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}

	return claims.Subject, nil
}
