// Package unread reads the polled unread-notification counter from the
// platform API.
package unread

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hoster-project/portal-sync/internal/core/ports"
)

// CountPath is the read-only unread counter resource.
const CountPath = "/api/v1/notifications/unread-count"

// Client polls the unread counter with bearer authentication.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ ports.UnreadSource = (*Client)(nil)

// NewClient creates a client against the given API base URL.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type countResponse struct {
	UnreadCount int `json:"unreadCount"`
}

// UnreadCount fetches the current unread count. Failures are transient by
// contract; the caller skips the cycle.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CountPath, nil)
	if err != nil {
		return 0, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unread count: unexpected status %d", resp.StatusCode)
	}

	var body countResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return body.UnreadCount, nil
}
