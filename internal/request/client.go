package request

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gridle/gridle/internal/state"
)

// Payload is the expected response shape.
type Payload struct {
	Data         []state.Record `json:"data"`
	TotalRecords int            `json:"totalRecords"`
}

// DataError reports an HTTP-level failure that already carries a final
// status. It is never retried; transient transport errors are.
type DataError struct {
	Status int
	URL    string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("request %s returned status %d", e.URL, e.Status)
}

const fetchTimeout = 30 * time.Second

// Client performs the GET fetches. The zero client uses a default
// http.Client; tests inject their own transport.
type Client struct {
	HTTP *http.Client
}

// Fetch retrieves and validates one page payload.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Payload, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DataError{Status: resp.StatusCode, URL: rawURL}
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.TotalRecords < 0 {
		return nil, fmt.Errorf("response totalRecords = %d, want >= 0", payload.TotalRecords)
	}
	return &payload, nil
}
