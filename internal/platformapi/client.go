package platformapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/mawulip/pronostix/internal/platform/resilience"
	"github.com/mawulip/pronostix/internal/session"
	"github.com/mawulip/pronostix/internal/usecase"
)

const (
	defaultTimeout   = 10 * time.Second
	refreshFlightKey = "token-refresh"
	refreshPath      = "/token/refresh/"
)

// ClientConfig parameterizes the one authenticated client every domain
// service shares. BaseURL is the single source of truth for the backend host.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Session    *session.Store
	Logger     *logging.Logger
}

// Client is the chokepoint for authenticated calls to the platform backend.
// It decorates requests with the bearer token, performs a single
// refresh-and-retry on 401, and translates transport failures into the
// shared error taxonomy.
//
// Concurrent 401s share one in-flight refresh: the first failure starts it
// and every other request observed while it is pending awaits the same
// result instead of racing its own refresh call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sess       *session.Store
	logger     *logging.Logger
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Session == nil {
		return nil, fmt.Errorf("session store is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		sess:       cfg.Session,
		logger:     logger,
	}, nil
}

func (c *Client) Session() *session.Store {
	return c.sess
}

// get/post/put/patch/del are the verbs the domain services speak.

func (c *Client) get(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

func (c *Client) post(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPost, path, body, target)
}

func (c *Client) put(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPut, path, body, target)
}

func (c *Client) patch(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPatch, path, body, target)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var encoded []byte
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		encoded = raw
	}

	token := c.sess.AccessToken()
	status, payload, err := c.execute(ctx, method, path, encoded, token)
	if err != nil {
		return err
	}

	// A 401 on a request that carried no token is a plain rejection, not an
	// expired session. Credential errors on /login/ land here.
	if status == http.StatusUnauthorized && token != "" {
		// One-shot refresh-and-retry. The request is marked retried by
		// construction: this branch runs at most once per do call.
		newToken, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}

		status, payload, err = c.execute(ctx, method, path, encoded, newToken)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return newAPIError(status, payload)
		}
	}

	if status < 200 || status >= 300 {
		return newAPIError(status, payload)
	}

	if target == nil || len(payload) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

// execute performs one HTTP round trip and classifies transport failures.
// The body is replayed from the pre-encoded bytes so a retry does not depend
// on a consumable reader.
func (c *Client) execute(ctx context.Context, method, path string, encoded []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if encoded != nil {
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if encoded != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response body: %v", usecase.ErrNetworkUnavailable, err)
	}

	return resp.StatusCode, payload, nil
}

// refreshAccessToken exchanges the refresh token for a new access token.
// Concurrent callers attach to the single pending refresh; whatever it
// resolves to is what they all see.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	out, err, shared := c.flight.Do(refreshFlightKey, func() (any, error) {
		return c.refreshOnce(ctx)
	})
	if err != nil {
		return "", err
	}
	token, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("unexpected refresh result type %T", out)
	}
	if shared {
		c.logger.DebugContext(ctx, "attached to in-flight token refresh")
	}
	return token, nil
}

func (c *Client) refreshOnce(ctx context.Context) (string, error) {
	refreshToken := c.sess.RefreshToken()
	if refreshToken == "" {
		c.sess.Clear()
		return "", fmt.Errorf("%w: no refresh token held", usecase.ErrSessionExpired)
	}

	encoded, err := sonic.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", fmt.Errorf("encode refresh request: %w", err)
	}

	// The refresh call itself goes out unauthenticated: a stale bearer token
	// on it would just 401 again.
	status, payload, err := c.execute(ctx, http.MethodPost, refreshPath, encoded, "")
	if err != nil {
		c.sess.Clear()
		return "", fmt.Errorf("%w: refresh call failed: %v", usecase.ErrSessionExpired, err)
	}
	if status < 200 || status >= 300 {
		c.sess.Clear()
		c.logger.WarnContext(ctx, "token refresh rejected", "status", status)
		return "", fmt.Errorf("%w: refresh rejected with status %d", usecase.ErrSessionExpired, status)
	}

	var decoded struct {
		Access string `json:"access"`
	}
	if err := sonic.Unmarshal(payload, &decoded); err != nil || strings.TrimSpace(decoded.Access) == "" {
		c.sess.Clear()
		return "", fmt.Errorf("%w: refresh response is unusable", usecase.ErrSessionExpired)
	}

	c.sess.SetAccessToken(decoded.Access)
	return decoded.Access, nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}

	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return fmt.Errorf("%w: %v", usecase.ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", usecase.ErrNetworkUnavailable, err)
}
