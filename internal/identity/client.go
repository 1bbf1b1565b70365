// Package identity resolves the current workspace user, either with the
// forwarded OBO token over plain REST or with the developer PAT through the
// workspace SDK.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/databricks/databricks-sdk-go"
)

const (
	scimMePath      = "/api/2.0/preview/scim/v2/Me"
	currentUserPath = "/api/2.0/preview/iam/current-user"

	requestTimeout = 15 * time.Second
)

// Client calls the workspace identity REST API with a bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an identity client for the given workspace URL.
func NewClient(host string) *Client {
	return &Client{
		baseURL: strings.TrimRight(host, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// CurrentUser fetches the identity behind the token. The SCIM endpoint is
// tried first; if it is unreachable or refuses, the IAM current-user endpoint
// serves as fallback.
func (c *Client) CurrentUser(ctx context.Context, token string) (map[string]any, error) {
	user, primaryErr := c.getJSON(ctx, token, scimMePath)
	if primaryErr == nil {
		return user, nil
	}
	user, err := c.getJSON(ctx, token, currentUserPath)
	if err != nil {
		return nil, fmt.Errorf("identity lookup failed: %w (primary: %v)", err, primaryErr)
	}
	return user, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("identity API error: %s (status %d)", strings.TrimSpace(string(body)), resp.StatusCode)
	}

	var user map[string]any
	if err := json.Unmarshal(body, &user); err != nil {
		// Keep the raw answer visible rather than failing the request.
		return map[string]any{
			"status": resp.StatusCode,
			"text":   string(body),
		}, nil
	}
	return user, nil
}

// LocalUser resolves the identity behind a developer PAT via the workspace
// SDK, the same path an admin CLI would use.
func LocalUser(ctx context.Context, host, token string) (any, error) {
	w, err := databricks.NewWorkspaceClient(&databricks.Config{
		Host:  host,
		Token: token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace client: %w", err)
	}
	me, err := w.CurrentUser.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}
	return me, nil
}
