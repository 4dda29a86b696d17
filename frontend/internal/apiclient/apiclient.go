package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tasks-dev/tasks/shared/csrf"
	internal_errors "github.com/tasks-dev/tasks/shared/errors"
	"github.com/tasks-dev/tasks/shared/logger"
)

const maxErrorBody = 512

// APIClient handles all communication with the tasks API.
type APIClient struct {
	BaseURL     string
	HttpClient  *http.Client
	Credentials CredentialProvider
}

// New creates a client for the tasks API. A nil provider sends no token.
func New(baseURL string, credentials CredentialProvider) *APIClient {
	if credentials == nil {
		credentials = StaticToken("")
	}
	return &APIClient{
		BaseURL:     baseURL,
		HttpClient:  &http.Client{},
		Credentials: credentials,
	}
}

// do is the single helper for API requests. body is JSON encoded when not
// nil; out receives the decoded 2xx response when not nil.
func (c *APIClient) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create API request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if method != http.MethodGet {
		token, err := c.Credentials.Token(ctx)
		if err != nil {
			return fmt.Errorf("%s: cannot obtain security token: %w", op, err)
		}
		req.Header.Set(csrf.HeaderName, token)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		observe(op, "network", start)
		return &internal_errors.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	observe(op, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Log.Warn("backend request failed",
			"component", "apiclient",
			"operation", op,
			"status", resp.StatusCode,
			"body", string(bodyBytes))
		if resp.StatusCode == http.StatusForbidden {
			// a rotated token is re-read on the next call, the failed one is not retried
			if inv, ok := c.Credentials.(interface{ Invalidate() }); ok {
				inv.Invalidate()
			}
		}
		return &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("%s: backend returned status %d", op, resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: cannot decode response: %w", op, err)
	}
	return nil
}
