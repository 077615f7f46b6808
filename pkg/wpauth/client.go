package wpauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	tokenEndpoint    = "/wp-json/jwt-auth/v1/token"
	validateEndpoint = "/wp-json/jwt-auth/v1/token/validate"
	registerEndpoint = "/wp-json/seller-portal/v1/register"
)

// Client talks to the WordPress JWT authentication plugin. It is the only
// component that ever sees vendor passwords; everything downstream works with
// the bearer token it issues.
type Client struct {
	httpClient *http.Client
	baseURL    string
	debug      bool
}

// NewClient constructs a new auth provider client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		debug:      os.Getenv("ENV") == "development",
	}
}

// TokenResponse is the payload returned by the JWT plugin on login.
type TokenResponse struct {
	Token           string `json:"token"`
	UserID          int    `json:"user_id"`
	UserEmail       string `json:"user_email"`
	UserNicename    string `json:"user_nicename"`
	UserDisplayName string `json:"user_display_name"`
}

// RegisterRequest is the seller registration payload forwarded to the portal
// plugin on the WordPress side.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	StoreName string `json:"store_name"`
	Phone     string `json:"phone,omitempty"`
}

// RegisterResponse confirms a created seller account.
type RegisterResponse struct {
	UserID  int    `json:"user_id"`
	Message string `json:"message"`
}

// AuthError is a non-2xx response from the auth provider.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wpauth: %s (status %d)", e.Message, e.Status)
}

// Token exchanges vendor credentials for a bearer token.
func (c *Client) Token(ctx context.Context, username, password string) (*TokenResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp TokenResponse
	if err := c.doRequest(ctx, "", tokenEndpoint, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate asks the provider whether a token is still accepted.
func (c *Client) Validate(ctx context.Context, token string) error {
	return c.doRequest(ctx, token, validateEndpoint, struct{}{}, nil)
}

// Register creates a new seller account via the portal plugin.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doRequest(ctx, "", registerEndpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs an HTTP POST against the auth provider and decodes the
// JSON response into result.
func (c *Client) doRequest(ctx context.Context, token, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Msg("[WPAUTH] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		authErr := &AuthError{Status: resp.StatusCode, Message: "authentication request rejected"}
		var we struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &we); err == nil && we.Message != "" {
			authErr.Code = we.Code
			authErr.Message = we.Message
		}
		return authErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
