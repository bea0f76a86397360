package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-success response from EDGAR.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("edgar error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// doRequest waits for a rate limit permit and performs a GET request.
func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "*/*")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("edgar request",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        url,
			Body:       body,
		}
	}

	return body, nil
}

// getJSON performs a GET request and decodes the JSON body into result.
func (c *Client) getJSON(ctx context.Context, url string, result any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
