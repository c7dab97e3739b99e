package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/domain/match"
	"github.com/mawulip/pronostix/internal/platform/cache"
	"github.com/mawulip/pronostix/internal/usecase"
	"github.com/stretchr/testify/require"
)

const stubModelAnswer = `{
	"match_id": "86392",
	"home_team": "Arsenal",
	"away_team": "Chelsea",
	"predicted_winner": "Arsenal",
	"win_probabilities": {"home": 55, "draw": 25, "away": 20},
	"predicted_score": {"home": 2, "away": 1},
	"confidence_level": 72,
	"recommended_bet": "1",
	"key_factors": ["forme"],
	"detailed_analysis": "Analyse."
}`

type stubFootballData struct {
	fixtures map[string]match.Fixture
	byLeague []match.Fixture
}

func (s *stubFootballData) Fixture(ctx context.Context, matchID string) (match.Fixture, error) {
	f, ok := s.fixtures[matchID]
	if !ok {
		return match.Fixture{}, fmt.Errorf("%w: match %s", usecase.ErrNotFound, matchID)
	}
	return f, nil
}

func (s *stubFootballData) HeadToHead(ctx context.Context, firstTeamID, secondTeamID string) (match.HeadToHead, error) {
	return match.HeadToHead{FirstTeam: firstTeamID, SecondTeam: secondTeamID}, nil
}

func (s *stubFootballData) Standings(ctx context.Context, leagueID string) ([]match.Standing, error) {
	return nil, nil
}

func (s *stubFootballData) TeamLastMatches(ctx context.Context, teamID string, limit int) ([]match.Fixture, error) {
	return nil, nil
}

func (s *stubFootballData) FixturesByLeague(ctx context.Context, leagueID, from, to string) ([]match.Fixture, error) {
	return s.byLeague, nil
}

type stubCompleter struct{}

func (stubCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return stubModelAnswer, nil
}

func newPredictionRouter(t *testing.T, jobToken string) http.Handler {
	t.Helper()

	fixture := match.Fixture{
		MatchID:    "86392",
		LeagueID:   "152",
		HomeTeamID: "1",
		AwayTeamID: "2",
		HomeTeam:   "Arsenal",
		AwayTeam:   "Chelsea",
		Date:       "2026-09-05",
	}
	provider := &stubFootballData{
		fixtures: map[string]match.Fixture{"86392": fixture},
		byLeague: []match.Fixture{fixture},
	}

	predictions, err := usecase.NewPredictionService(usecase.PredictionServiceConfig{
		Provider: provider,
		LLM:      stubCompleter{},
		Cache:    cache.NewStore(time.Minute),
	})
	require.NoError(t, err)

	batch, err := usecase.NewBatchPredictionService(predictions, provider, nil)
	require.NoError(t, err)

	handler := NewHandler(nil, predictions, batch, nil)
	mux := http.NewServeMux()
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, jobToken)
	return mux
}

func TestGetMatchPrediction_Success(t *testing.T) {
	router := newPredictionRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/86392/prediction", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data predictionDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "86392", body.Data.MatchID)
	require.Equal(t, "Arsenal", body.Data.PredictedWinner)
	require.InDelta(t, 55, body.Data.HomeWinPct, 0.0001)
}

func TestGetMatchPrediction_UnknownMatchIsNotFound(t *testing.T) {
	router := newPredictionRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/999/prediction", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunDailyPredictions_RequiresJobToken(t *testing.T) {
	router := newPredictionRouter(t, "secret-token")

	body := `{"league_id":"152","date":"2026-09-05"}`

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/daily-predictions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/daily-predictions", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", "secret-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data batchResultDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Data.FixtureCount)
	require.Equal(t, 1, resp.Data.SuccessCount)
}

func TestRunDailyPredictions_BadDateIsRejected(t *testing.T) {
	router := newPredictionRouter(t, "secret-token")

	body := `{"league_id":"152","date":"05/09/2026"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/daily-predictions", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", "secret-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
