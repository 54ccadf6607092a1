package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dserrors "github.com/systmms/lcdrotator/internal/errors"
	"github.com/systmms/lcdrotator/pkg/rotator"
)

// Client sends request strings to a running server.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the server at addr. addr may be a bare
// host:port or a full URL.
func NewClient(addr string, timeout time.Duration) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		BaseURL:    base,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Query sends one request string and returns the server's reply.
func (c *Client) Query(ctx context.Context, input string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+RequestPath, strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", dserrors.CommandError{
			Command:    input,
			StatusCode: resp.StatusCode,
			Message:    trimBody(body),
			Suggestion: suggestionFor(resp.StatusCode),
		}
	}
	return string(body), nil
}

// Rotators fetches the state of every rotator the server holds.
func (c *Client) Rotators(ctx context.Context) ([]rotator.State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+RotatorsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, dserrors.CommandError{
			Command:    "GET " + RotatorsPath,
			StatusCode: resp.StatusCode,
			Message:    trimBody(body),
		}
	}

	var states []rotator.State
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("failed to decode rotators: %w", err)
	}
	return states, nil
}

func suggestionFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Use the form 'NAME key|value [KEY=VALUE,KEY=VALUE]'"
	case http.StatusUnprocessableEntity:
		return "Send a 'key' request before each 'value' request and supply KEY=VALUE pairs on the first one"
	default:
		return ""
	}
}

// trimBody strips the newline http.Error appends to messages.
func trimBody(b []byte) string {
	return strings.TrimRight(string(b), "\n")
}
