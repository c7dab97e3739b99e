package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/mawulip/pronostix/internal/domain/match"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/mawulip/pronostix/internal/platform/resilience"
	"github.com/mawulip/pronostix/internal/usecase"
)

const (
	defaultBaseURL  = "https://apiv3.apifootball.com"
	formLookback    = 90 * 24 * time.Hour
	providerDateFmt = "2006-01-02"
)

var apiKeyParamRegex = regexp.MustCompile(`APIkey=[^&\s"']+`)
var errProviderTransient = crerr.New("football data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the apifootball-style provider. Every call is one GET with
// an action parameter and the API key in the query string; the key is redacted
// from anything that reaches a log line or an error message.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		now:            time.Now,
	}
}

// Fixture fetches one match by provider id. The provider answers an empty set
// (or its in-band error object) for unknown ids; both map to ErrNotFound.
func (c *Client) Fixture(ctx context.Context, matchID string) (match.Fixture, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Fixture{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var decoded []matchWire
	if err := c.doJSON(ctx, map[string]string{
		"action":   "get_events",
		"match_id": matchID,
	}, &decoded); err != nil {
		return match.Fixture{}, fmt.Errorf("fetch match match_id=%s: %w", matchID, err)
	}
	if len(decoded) == 0 {
		return match.Fixture{}, fmt.Errorf("%w: match %s", usecase.ErrNotFound, matchID)
	}

	return decoded[0].toDomain(), nil
}

func (c *Client) FixturesByLeague(ctx context.Context, leagueID, from, to string) ([]match.Fixture, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}

	query := map[string]string{
		"action":    "get_events",
		"league_id": leagueID,
	}
	if from = strings.TrimSpace(from); from != "" {
		query["from"] = from
	}
	if to = strings.TrimSpace(to); to != "" {
		query["to"] = to
	}

	var decoded []matchWire
	if err := c.doJSON(ctx, query, &decoded); err != nil {
		return nil, fmt.Errorf("fetch fixtures league_id=%s: %w", leagueID, err)
	}
	return mapFixtures(decoded), nil
}

// TeamLastMatches returns the team's most recent finished matches, newest
// first, capped at limit.
func (c *Client) TeamLastMatches(ctx context.Context, teamID string, limit int) ([]match.Fixture, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 5
	}

	now := c.now().UTC()
	var decoded []matchWire
	if err := c.doJSON(ctx, map[string]string{
		"action":  "get_events",
		"team_id": teamID,
		"from":    now.Add(-formLookback).Format(providerDateFmt),
		"to":      now.Format(providerDateFmt),
	}, &decoded); err != nil {
		return nil, fmt.Errorf("fetch team form team_id=%s: %w", teamID, err)
	}

	fixtures := mapFixtures(decoded)
	finished := fixtures[:0:0]
	for _, item := range fixtures {
		if item.Finished() {
			finished = append(finished, item)
		}
	}

	// Provider rows come oldest first.
	for i, j := 0, len(finished)-1; i < j; i, j = i+1, j-1 {
		finished[i], finished[j] = finished[j], finished[i]
	}
	if len(finished) > limit {
		finished = finished[:limit]
	}
	return finished, nil
}

func (c *Client) HeadToHead(ctx context.Context, firstTeamID, secondTeamID string) (match.HeadToHead, error) {
	firstTeamID = strings.TrimSpace(firstTeamID)
	secondTeamID = strings.TrimSpace(secondTeamID)
	if firstTeamID == "" || secondTeamID == "" {
		return match.HeadToHead{}, fmt.Errorf("%w: both team ids are required", usecase.ErrInvalidInput)
	}

	var decoded h2hWire
	if err := c.doJSON(ctx, map[string]string{
		"action":       "get_H2H",
		"firstTeamId":  firstTeamID,
		"secondTeamId": secondTeamID,
	}, &decoded); err != nil {
		return match.HeadToHead{}, fmt.Errorf("fetch h2h teams=%s,%s: %w", firstTeamID, secondTeamID, err)
	}

	return match.HeadToHead{
		FirstTeam:  firstTeamID,
		SecondTeam: secondTeamID,
		Matches:    mapFixtures(decoded.FirstVsSecond),
	}, nil
}

func (c *Client) Standings(ctx context.Context, leagueID string) ([]match.Standing, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}

	var decoded []standingWire
	if err := c.doJSON(ctx, map[string]string{
		"action":    "get_standings",
		"league_id": leagueID,
	}, &decoded); err != nil {
		return nil, fmt.Errorf("fetch standings league_id=%s: %w", leagueID, err)
	}

	standings := make([]match.Standing, 0, len(decoded))
	for _, item := range decoded {
		standings = append(standings, item.toDomain())
	}
	return standings, nil
}

func (c *Client) Countries(ctx context.Context) ([]match.Country, error) {
	var decoded []countryWire
	if err := c.doJSON(ctx, map[string]string{"action": "get_countries"}, &decoded); err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}

	countries := make([]match.Country, 0, len(decoded))
	for _, item := range decoded {
		countries = append(countries, item.toDomain())
	}
	return countries, nil
}

func (c *Client) Leagues(ctx context.Context, countryID string) ([]match.League, error) {
	query := map[string]string{"action": "get_leagues"}
	if countryID = strings.TrimSpace(countryID); countryID != "" {
		query["country_id"] = countryID
	}

	var decoded []leagueWire
	if err := c.doJSON(ctx, query, &decoded); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}

	leagues := make([]match.League, 0, len(decoded))
	for _, item := range decoded {
		leagues = append(leagues, item.toDomain())
	}
	return leagues, nil
}

func (c *Client) Teams(ctx context.Context, leagueID string) ([]match.Team, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}

	var decoded []teamWire
	if err := c.doJSON(ctx, map[string]string{
		"action":    "get_teams",
		"league_id": leagueID,
	}, &decoded); err != nil {
		return nil, fmt.Errorf("fetch teams league_id=%s: %w", leagueID, err)
	}

	teams := make([]match.Team, 0, len(decoded))
	for _, item := range decoded {
		teams = append(teams, item.toDomain())
	}
	return teams, nil
}

func (c *Client) Players(ctx context.Context, teamID string) ([]match.Player, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", usecase.ErrInvalidInput)
	}

	var decoded []playerWire
	if err := c.doJSON(ctx, map[string]string{
		"action":  "get_players",
		"team_id": teamID,
	}, &decoded); err != nil {
		return nil, fmt.Errorf("fetch players team_id=%s: %w", teamID, err)
	}

	players := make([]match.Player, 0, len(decoded))
	for _, item := range decoded {
		players = append(players, item.toDomain())
	}
	return players, nil
}

func (c *Client) doJSON(ctx context.Context, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("APIkey", c.apiKey)

	fullURL := c.baseURL + "/?" + values.Encode()

	out, err, _ := c.flight.Do(values.Encode(), func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	// In-band errors arrive as a JSON object with an error code even when
	// the HTTP status is 200.
	if inband := parseInbandError(raw); inband != nil {
		return inband
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football data request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

// parseInbandError recognizes the provider's {"error": NNN, "message": "..."}
// shape. A 404 code means no rows matched, which callers surface as not-found.
func parseInbandError(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}

	var decoded struct {
		Error   int    `json:"error"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(raw, &decoded); err != nil || decoded.Error == 0 {
		return nil
	}

	if decoded.Error == http.StatusNotFound {
		return fmt.Errorf("%w: %s", usecase.ErrNotFound, decoded.Message)
	}
	return fmt.Errorf("provider error=%d message=%s", decoded.Error, decoded.Message)
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout {
		return true
	}
	return status >= 500
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "APIkey=REDACTED")
}

func redactAPIURL(fullURL string) string {
	return apiKeyParamRegex.ReplaceAllString(fullURL, "APIkey=REDACTED")
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}

func mapFixtures(items []matchWire) []match.Fixture {
	out := make([]match.Fixture, 0, len(items))
	for _, item := range items {
		out = append(out, item.toDomain())
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
