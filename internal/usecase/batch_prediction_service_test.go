package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/mawulip/pronostix/internal/domain/match"
	"github.com/mawulip/pronostix/internal/platform/cache"
	"github.com/stretchr/testify/require"
)

// batchProvider serves a league day of fixtures and answers Fixture lookups
// out of the same set, failing the IDs listed in broken.
type batchProvider struct {
	fakeProvider
	byID   map[string]match.Fixture
	broken map[string]bool
}

func (p *batchProvider) Fixture(ctx context.Context, matchID string) (match.Fixture, error) {
	p.fixtureCalls.Add(1)
	if p.broken[matchID] {
		return match.Fixture{}, ErrDependencyUnavailable
	}
	return p.byID[matchID], nil
}

func newBatchProvider(fixtures ...match.Fixture) *batchProvider {
	byID := make(map[string]match.Fixture, len(fixtures))
	for _, f := range fixtures {
		byID[f.MatchID] = f
	}
	return &batchProvider{
		fakeProvider: fakeProvider{leagueFixtures: fixtures},
		byID:         byID,
		broken:       make(map[string]bool),
	}
}

func leagueDayFixtures() []match.Fixture {
	return []match.Fixture{
		{MatchID: "201", LeagueID: "152", HomeTeamID: "1", AwayTeamID: "2", HomeTeam: "Arsenal", AwayTeam: "Chelsea", Date: "2026-09-05"},
		{MatchID: "202", LeagueID: "152", HomeTeamID: "3", AwayTeamID: "4", HomeTeam: "Liverpool", AwayTeam: "Everton", Date: "2026-09-05"},
		{MatchID: "203", LeagueID: "152", HomeTeamID: "5", AwayTeamID: "6", HomeTeam: "Newcastle", AwayTeam: "Brighton", Date: "2026-09-05"},
	}
}

func newBatchService(t *testing.T, provider *batchProvider, llm *fakeCompleter) *BatchPredictionService {
	t.Helper()

	predictions, err := NewPredictionService(PredictionServiceConfig{
		Provider: provider,
		LLM:      llm,
		Cache:    cache.NewStore(time.Minute),
	})
	require.NoError(t, err)

	service, err := NewBatchPredictionService(predictions, provider, nil)
	require.NoError(t, err)
	return service
}

func TestBatchPrediction_AllFixturesOfTheDay(t *testing.T) {
	t.Parallel()

	provider := newBatchProvider(leagueDayFixtures()...)
	service := newBatchService(t, provider, &fakeCompleter{answer: modelAnswer})

	result, err := service.PredictLeagueDay(context.Background(), BatchPredictionInput{
		LeagueID: "152",
		Date:     "2026-09-05",
	})
	require.NoError(t, err)

	require.Equal(t, 3, result.FixtureCount)
	require.Equal(t, 3, result.SuccessCount)
	require.Zero(t, result.FailedCount)
	require.Len(t, result.Tasks, 3)

	// Tasks come back in match-id order regardless of worker scheduling.
	require.Equal(t, "201", result.Tasks[0].MatchID)
	require.Equal(t, "202", result.Tasks[1].MatchID)
	require.Equal(t, "203", result.Tasks[2].MatchID)
	require.Equal(t, batchStatusSuccess, result.Tasks[0].Status)
	require.NotNil(t, result.Tasks[0].Prediction)
}

func TestBatchPrediction_OneBadFixtureFailsOnlyItsTask(t *testing.T) {
	t.Parallel()

	provider := newBatchProvider(leagueDayFixtures()...)
	provider.broken["202"] = true
	service := newBatchService(t, provider, &fakeCompleter{answer: modelAnswer})

	result, err := service.PredictLeagueDay(context.Background(), BatchPredictionInput{
		LeagueID: "152",
		Date:     "2026-09-05",
	})
	require.NoError(t, err)

	require.Equal(t, 2, result.SuccessCount)
	require.Equal(t, 1, result.FailedCount)

	failed := result.Tasks[1]
	require.Equal(t, "202", failed.MatchID)
	require.Equal(t, batchStatusFailed, failed.Status)
	require.NotEmpty(t, failed.Message)
	require.Nil(t, failed.Prediction)
}

func TestBatchPrediction_EmptyDayIsNotAnError(t *testing.T) {
	t.Parallel()

	provider := newBatchProvider()
	service := newBatchService(t, provider, &fakeCompleter{answer: modelAnswer})

	result, err := service.PredictLeagueDay(context.Background(), BatchPredictionInput{
		LeagueID: "152",
		Date:     "2026-09-05",
	})
	require.NoError(t, err)
	require.Zero(t, result.FixtureCount)
	require.Empty(t, result.Tasks)
}

func TestBatchPrediction_InputValidation(t *testing.T) {
	t.Parallel()

	provider := newBatchProvider(leagueDayFixtures()...)
	service := newBatchService(t, provider, &fakeCompleter{answer: modelAnswer})

	_, err := service.PredictLeagueDay(context.Background(), BatchPredictionInput{Date: "2026-09-05"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.PredictLeagueDay(context.Background(), BatchPredictionInput{LeagueID: "152", Date: "05/09/2026"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBatchPrediction_WorkerCountNormalization(t *testing.T) {
	t.Parallel()

	require.Equal(t, defaultBatchWorkers, normalizeBatchWorkerCount(0, 100))
	require.Equal(t, maxBatchWorkers, normalizeBatchWorkerCount(64, 100))
	require.Equal(t, 3, normalizeBatchWorkerCount(8, 3))
	require.Equal(t, 1, normalizeBatchWorkerCount(-2, 1))
}
