package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func TestHealth(t *testing.T) {
	h := &Handler{}
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestReady(t *testing.T) {
	tests := []struct {
		name   string
		health HealthChecker
		want   int
	}{
		{name: "no dependencies", health: nil, want: http.StatusOK},
		{name: "healthy", health: &MockHealthChecker{}, want: http.StatusOK},
		{
			name: "unhealthy",
			health: &MockHealthChecker{PingFunc: func(ctx context.Context) error {
				return errors.New("connection refused")
			}},
			want: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{health: tt.health}
			rr := httptest.NewRecorder()
			h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}
