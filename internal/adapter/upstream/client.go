// Package upstream is the HTTP client for the core API. The front tier has
// no tenant storage of its own; the tenant list for a session comes
// exclusively from here.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gregory6z/saas-multitenant-front-sub001/internal/domain"
)

// Client calls the core API with the session's bearer token. An expired
// session is translated into a domain.RedirectError pointing at the login
// destination, so callers treat it as a navigation signal rather than a data
// error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	loginPath  string
}

// NewClient creates an upstream Client. requestsPerSecond bounds how fast
// this process may hit the core API regardless of cache invalidation storms.
func NewClient(baseURL, loginPath string, requestsPerSecond float64, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
		logger:     logger.With("component", "upstream_client"),
		loginPath:  loginPath,
	}
}

// ListTenants returns the tenants accessible to the session identified by
// token. Implements domain.TenantSource.
func (c *Client) ListTenants(ctx context.Context, token string) ([]domain.Tenant, error) {
	body, err := c.get(ctx, "/v1/tenants", token)
	if err != nil {
		return nil, err
	}

	var tenants []domain.Tenant
	if err := json.Unmarshal(body, &tenants); err != nil {
		return nil, fmt.Errorf("decode tenant list: %w", err)
	}
	return tenants, nil
}

// ListChatbots returns the chatbots owned by tenantID.
func (c *Client) ListChatbots(ctx context.Context, token, tenantID string) ([]domain.Chatbot, error) {
	body, err := c.get(ctx, "/v1/tenants/"+tenantID+"/chatbots", token)
	if err != nil {
		return nil, err
	}

	var chatbots []domain.Chatbot
	if err := json.Unmarshal(body, &chatbots); err != nil {
		return nil, fmt.Errorf("decode chatbot list: %w", err)
	}
	return chatbots, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/auth/login", strings.NewReader(string(payload)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream login: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	return out.Token, nil
}

func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.logger.Info("upstream rejected session token", "path", path)
		return nil, &domain.RedirectError{
			Intent: domain.RedirectIntent{To: c.loginPath},
			Cause:  domain.ErrSessionExpired,
		}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("upstream GET %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	return body, nil
}
