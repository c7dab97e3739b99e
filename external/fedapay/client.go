package fedapay

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/mawulip/pronostix/internal/domain/payment"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/mawulip/pronostix/internal/platform/resilience"
	"github.com/mawulip/pronostix/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	sandboxBaseURL = "https://sandbox-api.fedapay.com"
	liveBaseURL    = "https://api.fedapay.com"

	EnvironmentSandbox = "sandbox"
	EnvironmentLive    = "live"

	// ModeMTN is the mobile-money channel every payment goes through today.
	ModeMTN = "mtn_open"

	CurrencyISO = "XOF"
)

var errFedaPayTransient = crerr.New("fedapay transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	SecretKey      string
	Environment    string
	Country        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client wraps the FedaPay REST API. Entities come back under versioned keys
// ("v1/customer", "v1/transaction"); the wire types absorb that.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	secretKey      string
	country        string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		if strings.EqualFold(strings.TrimSpace(cfg.Environment), EnvironmentLive) {
			baseURL = liveBaseURL
		} else {
			baseURL = sandboxBaseURL
		}
	}
	country := strings.ToLower(strings.TrimSpace(cfg.Country))
	if country == "" {
		country = "tg"
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		secretKey:      strings.TrimSpace(cfg.SecretKey),
		country:        country,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FindCustomerByEmail returns the first customer matching the email, or nil
// when none exists.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*payment.Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("email", email)

	var decoded customerListWire
	if err := c.doJSON(ctx, http.MethodGet, "/v1/customers/search?"+values.Encode(), nil, &decoded); err != nil {
		return nil, fmt.Errorf("search customer: %w", err)
	}
	if len(decoded.Customers) == 0 {
		return nil, nil
	}

	found := decoded.Customers[0].toDomain()
	return &found, nil
}

func (c *Client) CreateCustomer(ctx context.Context, input payment.CustomerInput) (payment.Customer, error) {
	body := map[string]any{
		"firstname": strings.TrimSpace(input.Firstname),
		"lastname":  strings.TrimSpace(input.Lastname),
		"email":     strings.TrimSpace(input.Email),
		"phone_number": map[string]string{
			"number":  strings.TrimSpace(input.Phone),
			"country": c.country,
		},
	}

	var decoded customerWire
	if err := c.doJSON(ctx, http.MethodPost, "/v1/customers", body, &decoded); err != nil {
		return payment.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return decoded.Customer.toDomain(), nil
}

func (c *Client) CreateTransaction(ctx context.Context, input payment.TransactionInput) (payment.Transaction, error) {
	if input.Amount <= 0 {
		return payment.Transaction{}, fmt.Errorf("%w: amount must be positive", usecase.ErrInvalidInput)
	}
	if input.CustomerID <= 0 {
		return payment.Transaction{}, fmt.Errorf("%w: customer id is required", usecase.ErrInvalidInput)
	}

	body := map[string]any{
		"description": strings.TrimSpace(input.Description),
		"amount":      input.Amount,
		"currency":    map[string]string{"iso": CurrencyISO},
		"mode":        ModeMTN,
		"customer":    map[string]int64{"id": input.CustomerID},
	}
	if callback := strings.TrimSpace(input.CallbackURL); callback != "" {
		body["callback_url"] = callback
	}

	var decoded transactionWire
	if err := c.doJSON(ctx, http.MethodPost, "/v1/transactions", body, &decoded); err != nil {
		return payment.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return decoded.Transaction.toDomain(), nil
}

// GenerateToken turns a created transaction into a hosted payment page URL.
func (c *Client) GenerateToken(ctx context.Context, transactionID int64) (payment.Token, error) {
	if transactionID <= 0 {
		return payment.Token{}, fmt.Errorf("%w: transaction id is required", usecase.ErrInvalidInput)
	}

	var decoded tokenWire
	path := fmt.Sprintf("/v1/transactions/%d/token", transactionID)
	if err := c.doJSON(ctx, http.MethodPost, path, map[string]any{}, &decoded); err != nil {
		return payment.Token{}, fmt.Errorf("generate payment token: %w", err)
	}
	if strings.TrimSpace(decoded.URL) == "" {
		return payment.Token{}, crerr.New("token response is missing the payment url")
	}
	return payment.Token{Token: decoded.Token, URL: decoded.URL}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "fedapay circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: payment gateway is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	var reader io.Reader
	var preview string
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return crerr.Wrap(err, "marshal gateway payload")
		}
		reader = strings.NewReader(string(encoded))
		preview = buildRequestPreview(method, c.baseURL+path, string(encoded))
	} else {
		preview = buildRequestPreview(method, c.baseURL+path, "")
	}
	c.logger.DebugContext(ctx, "fedapay request", "preview", preview)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return crerr.Wrap(err, "create gateway request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: send gateway request: %v", errFedaPayTransient, err)
		c.recordCircuitResult(callErr)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		callErr := fmt.Errorf("%w: read gateway response: %v", errFedaPayTransient, err)
		c.recordCircuitResult(callErr)
		return callErr
	}

	if resp.StatusCode/100 != 2 {
		trimmed := strings.TrimSpace(string(raw))
		var callErr error
		if isRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: gateway status=%d body=%s", errFedaPayTransient, resp.StatusCode, trimmed)
		} else {
			callErr = fmt.Errorf("gateway status=%d body=%s", resp.StatusCode, trimmed)
		}
		c.recordCircuitResult(callErr)
		return callErr
	}
	c.recordCircuitResult(nil)

	if target == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrap(err, "decode gateway response")
	}
	return nil
}

// buildRequestPreview renders a masked, log-safe one-liner of the outbound
// call. The secret key never appears in it.
func buildRequestPreview(method, fullURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(method)
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(fullURL)
	_, _ = buf.WriteString(" auth=Bearer:***")
	if body != "" {
		_, _ = buf.WriteString(" body=")
		_, _ = buf.WriteString(truncateForLog(body, 2048))
	}
	return buf.String()
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errFedaPayTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
