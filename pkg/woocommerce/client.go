package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// restNamespace is the WooCommerce REST API namespace appended to the site URL.
	restNamespace = "/wp-json/wc/v3"
)

// Client is a minimal HTTP client for the WooCommerce REST API. The bearer
// token is passed per call because every request runs under the calling
// vendor's credential, not a service account.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a new WooCommerce client with sane defaults. baseURL is
// the WordPress site root, e.g. https://store.example.com.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// APIError represents a non-2xx response from the store API. Status carries
// the upstream HTTP status so callers can pass it through.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("woocommerce: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("woocommerce: request failed with status %d", e.Status)
}

// wpError is the standard WP REST error body.
type wpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// doRequest performs an HTTP request against the store API, decodes the JSON
// response into result, and returns the raw *http.Response headers for
// pagination. A non-2xx status is returned as *APIError.
func (c *Client) doRequest(ctx context.Context, token, method, path string, query url.Values, body any, result any) (http.Header, error) {
	endpoint := c.baseURL + restNamespace + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	var reader io.Reader
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if c.debug {
		log.Debug().
			Str("method", method).
			Str("endpoint", endpoint).
			Msg("[WOOCOMMERCE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Msg("[WOOCOMMERCE] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var we wpError
		if err := json.Unmarshal(respBody, &we); err == nil {
			apiErr.Code = we.Code
			apiErr.Message = we.Message
		}
		return resp.Header, apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.Header, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.Header, nil
}

// totalFromHeader reads the X-WP-Total pagination header, defaulting to n
// when the header is absent or malformed.
func totalFromHeader(h http.Header, n int) int {
	if h == nil {
		return n
	}
	if v := h.Get("X-WP-Total"); v != "" {
		if total, err := strconv.Atoi(v); err == nil {
			return total
		}
	}
	return n
}
