package apiclient

import (
	"context"
	"net/http"

	"github.com/tasks-dev/tasks/shared/api"
)

const opListThreads = "list threads"

func (c *APIClient) ListThreads(ctx context.Context) (api.ThreadListResponse, error) {
	var response api.ThreadListResponse
	if err := c.do(ctx, opListThreads, http.MethodGet, "/threads/", nil, &response); err != nil {
		return api.ThreadListResponse{}, err
	}
	return response, nil
}
