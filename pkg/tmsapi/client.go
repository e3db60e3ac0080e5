// Package tmsapi is a typed client for the tourist booking JSON API.
//
// Every operation maps to one endpoint. Non-2xx responses are returned as
// *APIError carrying the HTTP status and the server's message verbatim, so
// callers can branch on status codes the way the UI flows do.
package tmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

func init() {
	// The API writes and reads money as bare JSON numbers.
	decimalWireFormat()
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// New builds a client with a cookie jar; the API tracks sessions with a
// cookie set on login, so all calls for one user must share one Client.
func New(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("missing base url")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status=%d message=%q", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status=%d", e.Status)
}

// messageBody is the {"message": ...} envelope the API uses everywhere.
type messageBody struct {
	Message string `json:"message"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) (int, error) {
	if c.BaseURL == "" {
		return 0, fmt.Errorf("missing base url")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	// Surface the server message for non-2xx so flows can show it verbatim.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var msg messageBody
		_ = json.Unmarshal(b, &msg)
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: msg.Message}
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			// Include body for easier debugging (unexpected shape, partial responses, etc).
			return resp.StatusCode, fmt.Errorf("decode response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}
