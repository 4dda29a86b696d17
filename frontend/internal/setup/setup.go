package setup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/tasks-dev/tasks/frontend/internal/apiclient"
	"github.com/tasks-dev/tasks/frontend/internal/handler"
	"github.com/tasks-dev/tasks/frontend/internal/session"
	"github.com/tasks-dev/tasks/shared/config"
	"github.com/tasks-dev/tasks/shared/jwt"
	"github.com/tasks-dev/tasks/shared/logger"
	"github.com/tasks-dev/tasks/shared/middleware/ratelimiter"
)

type Dependencies struct {
	Handler    *handler.Handler
	Jwt        jwt.JwtService
	Registry   *session.Registry
	Limiter    *ratelimiter.Limiter // nil when limiting is disabled
	Public     config.Public
	CancelFunc context.CancelFunc
	closers    []func() error
}

// Cleanup stops background work and closes external connections.
func (d *Dependencies) Cleanup() {
	d.CancelFunc()
	if d.Limiter != nil {
		d.Limiter.Stop()
	}
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			logger.Log.Warn("cleanup failed", "error", err)
		}
	}
}

// NewAPIClient builds the tasks API client. All calls share one cookie jar:
// the CSRF cookie set by the token page must accompany the header token.
func NewAPIClient(public config.Public, apiToken string) (*apiclient.APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	httpClient := &http.Client{Jar: jar, Timeout: public.ApiTimeout}

	var credentials apiclient.CredentialProvider = apiclient.StaticToken(apiToken)
	if public.TokenPageURL != "" {
		credentials = apiclient.NewPageToken(httpClient, public.TokenPageURL)
	}

	client := apiclient.New(public.ApiBaseURL, credentials)
	client.HttpClient = httpClient
	return client, nil
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	// Create cancellable context for background tasks
	ctx, cancel := context.WithCancel(context.Background())

	apiClient, err := NewAPIClient(cfg.Public, cfg.ApiToken())
	if err != nil {
		cancel()
		return nil, err
	}

	var closers []func() error
	var pointers session.PointerStore
	var health handler.HealthChecker
	if cfg.Public.RedisURL != "" {
		redisStore, err := session.NewRedisPointerStore(cfg.Public.RedisURL, cfg.Public.SessionTTL)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to initialize pointer store: %w", err)
		}
		logger.Log.Info("using redis for thread pointers")
		pointers = redisStore
		health = redisStore
		closers = append(closers, redisStore.Close)
	} else {
		logger.Log.Info("keeping thread pointers in memory")
		pointers = session.NewMemoryPointerStore()
	}

	registry := session.NewRegistry(apiClient, cfg.Public.DefaultThread, pointers, cfg.Public.SessionIdleTTL)
	registry.StartSweeper(ctx, cfg.Public.SweepInterval)

	var limiter *ratelimiter.Limiter
	if cfg.Public.ActionRate > 0 {
		limiter = ratelimiter.New(cfg.Public.ActionRate, cfg.Public.ActionBurst, cfg.Public.SessionIdleTTL)
	}

	return &Dependencies{
		Handler:    handler.New(registry, health),
		Jwt:        jwt.New(cfg.SessionSecret(), cfg.Public.SessionTTL),
		Registry:   registry,
		Limiter:    limiter,
		Public:     cfg.Public,
		CancelFunc: cancel,
		closers:    closers,
	}, nil
}
