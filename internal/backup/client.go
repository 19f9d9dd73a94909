package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ngenohkevin/backupdeck/internal/status"
)

// StatusError is returned when the status endpoint answers with a non-2xx code
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backup server returned %s", e.Status)
}

// Client talks to the backup server REST API
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient creates a client for the given base URL. A zero timeout
// leaves the transport default in place.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backup server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backup server url must be absolute: %q", baseURL)
	}

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the configured server base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string) string {
	ref := &url.URL{Path: path}
	return c.baseURL.ResolveReference(ref).String()
}

// FetchStatus retrieves the current status snapshot
func (c *Client) FetchStatus(ctx context.Context) (status.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/api/status"), nil)
	if err != nil {
		return status.Empty(), fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return status.Empty(), fmt.Errorf("failed to fetch status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return status.Empty(), &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return status.Decode(resp.Body)
}

// Clear asks the server to drop every task in a clearable section.
// The HTTP status is not inspected; the body is decoded as-is.
func (c *Client) Clear(ctx context.Context, section status.Section) (status.ClearResult, error) {
	var result status.ClearResult

	if !section.Clearable() {
		return result, fmt.Errorf("%w: %q cannot be cleared", status.ErrUnknownSection, section)
	}

	path := "/api/clear_" + strings.ToLower(section.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), nil)
	if err != nil {
		return result, fmt.Errorf("failed to build clear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return result, fmt.Errorf("failed to clear %s: %w", section, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("failed to decode clear %s response: %w", section, err)
	}

	return result, nil
}
