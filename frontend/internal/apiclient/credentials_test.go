package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasks-dev/tasks/shared/domain"
)

const tokenPage = `<html><body>
<form method="post"><input type="hidden" name="csrfmiddlewaretoken" value="%s"></form>
</body></html>`

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"embedded input", fmt.Sprintf(tokenPage, "abc123"), "abc123"},
		{"other inputs ignored", `<input name="q" value="x"><input value="tok" name="csrfmiddlewaretoken">`, "tok"},
		{"no token", `<html><body><p>hello</p></body></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(strings.NewReader(tt.page))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageTokenCachesUntilInvalidated(t *testing.T) {
	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := fetches.Add(1)
		fmt.Fprintf(w, tokenPage, fmt.Sprintf("token-%d", n))
	}))
	defer srv.Close()

	p := NewPageToken(srv.Client(), srv.URL)
	ctx := context.Background()

	first, err := p.Token(ctx)
	require.NoError(t, err)
	second, err := p.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", first)
	assert.Equal(t, first, second)

	p.Invalidate()
	third, err := p.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-2", third)
}

func TestForbiddenInvalidatesPageToken(t *testing.T) {
	var fetches atomic.Int32
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := fetches.Add(1)
		fmt.Fprintf(w, tokenPage, fmt.Sprintf("token-%d", n))
	}))
	defer page.Close()

	var seen []string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("X-CSRFToken"))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer api.Close()

	client := New(api.URL, NewPageToken(page.Client(), page.URL))
	ctx := context.Background()

	_, err := client.CommitBoard(ctx, 1)
	require.Error(t, err)
	_, err = client.SaveBoard(ctx, domain.Board{Id: domain.IdPtr(1)})
	require.Error(t, err)

	assert.Equal(t, []string{"token-1", "token-2"}, seen)
}
