package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
	"github.com/aquanet-ops/aquanet/pkg/domain/model"
	"github.com/aquanet-ops/aquanet/pkg/domain/types"
)

const (
	// DefaultCacheTTL is the default TTL for user summary cache
	DefaultCacheTTL = 45 * time.Second
	// DefaultTimeout bounds one lookup against the user service
	DefaultTimeout = 3 * time.Second
)

// cacheEntry holds a cached user summary with expiration
type cacheEntry struct {
	user      *model.UserSummary
	expiresAt time.Time
}

// Client fetches user summaries from the external user service over HTTP.
// Successful lookups are cached with a short TTL; failures are never cached
// so the next request retries the service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

var _ interfaces.UserDirectory = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-lookup timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCacheTTL sets the TTL for the user summary cache
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// New creates a user directory client for the given base URL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("user service base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, goerr.Wrap(err, "invalid user service base URL", goerr.V("baseURL", baseURL))
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cacheTTL:   DefaultCacheTTL,
		cache:      make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// userPayload is the user record shape returned by the user service
type userPayload struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// envelope is the standard response wrapper used across the platform
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// GetUser looks up one user within an organization. Non-2xx responses,
// transport errors, timeouts and malformed payloads all surface uniformly
// as errors; callers apply their own fallback policy.
func (c *Client) GetUser(ctx context.Context, userID types.UserID, orgID types.OrgID) (*model.UserSummary, error) {
	if userID == "" {
		return nil, goerr.New("user ID is required")
	}

	if user := c.fromCache(userID, orgID); user != nil {
		return user, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/organizations/%s/users/%s",
		c.baseURL, url.PathEscape(string(orgID)), url.PathEscape(string(userID)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build user lookup request", goerr.V("endpoint", endpoint))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "user lookup request failed",
			goerr.V("userID", userID),
			goerr.V("orgID", orgID))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, goerr.New("user lookup returned non-2xx status",
			goerr.V("status", resp.StatusCode),
			goerr.V("userID", userID),
			goerr.V("orgID", orgID))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, goerr.Wrap(err, "failed to decode user lookup response", goerr.V("userID", userID))
	}
	if !env.Success || len(env.Data) == 0 {
		return nil, goerr.New("user lookup response carried no data",
			goerr.V("message", env.Message),
			goerr.V("userID", userID))
	}

	var payload userPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, goerr.Wrap(err, "malformed user payload", goerr.V("userID", userID))
	}
	if payload.ID == "" {
		return nil, goerr.New("user payload missing ID", goerr.V("userID", userID))
	}

	user := &model.UserSummary{
		ID:       types.UserID(payload.ID),
		Code:     payload.Code,
		Username: payload.Username,
		FullName: payload.FullName,
	}

	c.store(userID, orgID, user)
	return user, nil
}

func cacheKey(userID types.UserID, orgID types.OrgID) string {
	return string(orgID) + "/" + string(userID)
}

func (c *Client) fromCache(userID types.UserID, orgID types.OrgID) *model.UserSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[cacheKey(userID, orgID)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}

	copied := *entry.user
	return &copied
}

func (c *Client) store(userID types.UserID, orgID types.OrgID, user *model.UserSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *user
	c.cache[cacheKey(userID, orgID)] = cacheEntry{
		user:      &copied,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}
