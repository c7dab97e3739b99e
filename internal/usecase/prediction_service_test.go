package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mawulip/pronostix/internal/domain/match"
	"github.com/mawulip/pronostix/internal/platform/cache"
	"github.com/stretchr/testify/require"
)

const modelAnswer = `{
	"match_id": "86392",
	"home_team": "Arsenal",
	"away_team": "Chelsea",
	"predicted_winner": "Arsenal",
	"win_probabilities": {"home": 55, "draw": 25, "away": 20},
	"predicted_score": {"home": 2, "away": 1},
	"confidence_level": 72,
	"recommended_bet": "1",
	"key_factors": ["forme à domicile"],
	"detailed_analysis": "Arsenal domine ses confrontations récentes."
}`

type fakeProvider struct {
	fixture    match.Fixture
	fixtureErr error

	fixtureCalls   atomic.Int32
	h2hCalls       atomic.Int32
	standingsCalls atomic.Int32
	formCalls      atomic.Int32

	leagueFixtures []match.Fixture
}

func (f *fakeProvider) Fixture(ctx context.Context, matchID string) (match.Fixture, error) {
	f.fixtureCalls.Add(1)
	if f.fixtureErr != nil {
		return match.Fixture{}, f.fixtureErr
	}
	return f.fixture, nil
}

func (f *fakeProvider) HeadToHead(ctx context.Context, firstTeamID, secondTeamID string) (match.HeadToHead, error) {
	f.h2hCalls.Add(1)
	return match.HeadToHead{
		FirstTeam:  firstTeamID,
		SecondTeam: secondTeamID,
		Matches: []match.Fixture{
			{MatchID: "100", Date: "2026-03-01", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Status: "Finished", HomeScore: "2", AwayScore: "0"},
		},
	}, nil
}

func (f *fakeProvider) Standings(ctx context.Context, leagueID string) ([]match.Standing, error) {
	f.standingsCalls.Add(1)
	return []match.Standing{
		{TeamID: "3081", TeamName: "Arsenal", Position: 1, Played: 4, Points: 12},
		{TeamID: "3092", TeamName: "Chelsea", Position: 4, Played: 4, Points: 7},
	}, nil
}

func (f *fakeProvider) TeamLastMatches(ctx context.Context, teamID string, limit int) ([]match.Fixture, error) {
	f.formCalls.Add(1)
	return []match.Fixture{
		{MatchID: "90", Date: "2026-08-22", HomeTeam: "Arsenal", AwayTeam: "Spurs", Status: "Finished", HomeScore: "3", AwayScore: "1"},
	}, nil
}

func (f *fakeProvider) FixturesByLeague(ctx context.Context, leagueID, from, to string) ([]match.Fixture, error) {
	return f.leagueFixtures, nil
}

type fakeCompleter struct {
	answer string
	err    error
	calls  atomic.Int32
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func upcomingFixture() match.Fixture {
	return match.Fixture{
		MatchID:    "86392",
		LeagueID:   "152",
		LeagueName: "Premier League",
		HomeTeamID: "3081",
		AwayTeamID: "3092",
		HomeTeam:   "Arsenal",
		AwayTeam:   "Chelsea",
		Date:       "2026-09-05",
		Time:       "16:00",
	}
}

func newPredictionService(t *testing.T, provider *fakeProvider, llm *fakeCompleter, ttl time.Duration) *PredictionService {
	t.Helper()

	service, err := NewPredictionService(PredictionServiceConfig{
		Provider: provider,
		LLM:      llm,
		Cache:    cache.NewStore(ttl),
	})
	require.NoError(t, err)
	return service
}

func TestPredictionService_FullPipeline(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	llm := &fakeCompleter{answer: modelAnswer}
	service := newPredictionService(t, provider, llm, time.Minute)

	result, err := service.Predict(context.Background(), "86392", false)
	require.NoError(t, err)

	require.Equal(t, "86392", result.MatchID)
	require.Equal(t, "Arsenal", result.PredictedWinner)
	require.InDelta(t, 55, result.WinProbabilities.Home, 0.0001)
	require.Equal(t, 2, result.PredictedScore.Home)
	require.True(t, result.Confident())

	require.Equal(t, int32(1), provider.h2hCalls.Load())
	require.Equal(t, int32(1), provider.standingsCalls.Load())
	require.Equal(t, int32(2), provider.formCalls.Load(), "home and away form fetched once each")
}

func TestPredictionService_UnknownMatchStopsBeforeContextFetches(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixtureErr: fmt.Errorf("%w: match 1", ErrNotFound)}
	llm := &fakeCompleter{answer: modelAnswer}
	service := newPredictionService(t, provider, llm, time.Minute)

	_, err := service.Predict(context.Background(), "1", false)
	require.ErrorIs(t, err, ErrNotFound)

	require.Zero(t, provider.h2hCalls.Load())
	require.Zero(t, provider.standingsCalls.Load())
	require.Zero(t, provider.formCalls.Load())
	require.Zero(t, llm.calls.Load())
}

func TestPredictionService_NonJSONAnswerIsTypedError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	llm := &fakeCompleter{answer: "Je pense qu'Arsenal va gagner 2-1."}
	service := newPredictionService(t, provider, llm, time.Minute)

	_, err := service.Predict(context.Background(), "86392", false)
	require.ErrorIs(t, err, ErrUnparsablePrediction)
}

func TestPredictionService_FencedAnswerStillParses(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	llm := &fakeCompleter{answer: "```json\n" + modelAnswer + "\n```"}
	service := newPredictionService(t, provider, llm, time.Minute)

	result, err := service.Predict(context.Background(), "86392", false)
	require.NoError(t, err)
	require.Equal(t, "Arsenal", result.PredictedWinner)
}

func TestPredictionService_SecondCallWithinTTLHitsNoUpstream(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	llm := &fakeCompleter{answer: modelAnswer}
	service := newPredictionService(t, provider, llm, time.Minute)

	first, err := service.Predict(context.Background(), "86392", false)
	require.NoError(t, err)

	second, err := service.Predict(context.Background(), "86392", false)
	require.NoError(t, err)
	require.Equal(t, first, second)

	require.Equal(t, int32(1), provider.fixtureCalls.Load())
	require.Equal(t, int32(1), llm.calls.Load())
}

func TestPredictionService_DetailFlagIsPartOfTheCacheKey(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	llm := &fakeCompleter{answer: modelAnswer}
	service := newPredictionService(t, provider, llm, time.Minute)

	_, err := service.Predict(context.Background(), "86392", false)
	require.NoError(t, err)
	_, err = service.Predict(context.Background(), "86392", true)
	require.NoError(t, err)

	require.Equal(t, int32(2), llm.calls.Load())
}

func TestPredictionService_FailedRunsAreNotCached(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	llm := &fakeCompleter{answer: "pas du json"}
	service := newPredictionService(t, provider, llm, time.Minute)

	_, err := service.Predict(context.Background(), "86392", false)
	require.ErrorIs(t, err, ErrUnparsablePrediction)

	llm.answer = modelAnswer
	result, err := service.Predict(context.Background(), "86392", false)
	require.NoError(t, err)
	require.Equal(t, "Arsenal", result.PredictedWinner)
}

func TestPredictionService_EmptyMatchIDRejected(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{fixture: upcomingFixture()}
	service := newPredictionService(t, provider, &fakeCompleter{answer: modelAnswer}, time.Minute)

	_, err := service.Predict(context.Background(), "  ", false)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Zero(t, provider.fixtureCalls.Load())
}
