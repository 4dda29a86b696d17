package apiclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/net/html"

	"github.com/tasks-dev/tasks/shared/csrf"
)

// CredentialProvider supplies the security token attached to mutating requests.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, e.g. from configuration.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// PageToken reads the token the tasks API embeds in its HTML pages and caches
// it until Invalidate is called. client should carry a cookie jar so the
// matching csrf cookie is sent back with later requests.
type PageToken struct {
	client  *http.Client
	pageURL string

	mu    sync.Mutex
	token string
}

func NewPageToken(client *http.Client, pageURL string) *PageToken {
	return &PageToken{client: client, pageURL: pageURL}
}

func (p *PageToken) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" {
		return p.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token page request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token page unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token page returned status %d", resp.StatusCode)
	}

	token, err := ExtractToken(resp.Body)
	if err != nil {
		return "", err
	}
	p.token = token
	return token, nil
}

func (p *PageToken) Invalidate() {
	p.mu.Lock()
	p.token = ""
	p.mu.Unlock()
}

// ExtractToken finds the value of the first input named csrfmiddlewaretoken.
// A page without one yields an empty token, not an error.
func ExtractToken(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("cannot parse token page: %w", err)
	}
	return findToken(doc), nil
}

func findToken(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "input" {
		var name, value string
		for _, attr := range n.Attr {
			switch attr.Key {
			case "name":
				name = attr.Val
			case "value":
				value = attr.Val
			}
		}
		if name == csrf.FormField {
			return value
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if token := findToken(child); token != "" {
			return token
		}
	}
	return ""
}
