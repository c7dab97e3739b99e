package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mawulip/pronostix/internal/domain/prediction"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"

	defaultBatchWorkers = 4
	maxBatchWorkers     = 16
)

type BatchPredictionInput struct {
	LeagueID   string
	Date       string
	Detailed   bool
	MaxWorkers int
}

type BatchPredictionTaskResult struct {
	MatchID    string
	HomeTeam   string
	AwayTeam   string
	Status     string
	Message    string
	Prediction *prediction.MatchPrediction
	DurationMs int64
}

type BatchPredictionResult struct {
	FixtureCount int
	WorkerCount  int
	SuccessCount int
	FailedCount  int
	Tasks        []BatchPredictionTaskResult
}

// BatchPredictionService predicts every fixture of a league day over a worker
// pool. One bad fixture fails its own task, never the batch.
type BatchPredictionService struct {
	predictions *PredictionService
	provider    FootballDataProvider
	logger      *logging.Logger
}

func NewBatchPredictionService(predictions *PredictionService, provider FootballDataProvider, logger *logging.Logger) (*BatchPredictionService, error) {
	if predictions == nil {
		return nil, fmt.Errorf("prediction service is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("football data provider is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchPredictionService{
		predictions: predictions,
		provider:    provider,
		logger:      logger,
	}, nil
}

func (s *BatchPredictionService) PredictLeagueDay(ctx context.Context, input BatchPredictionInput) (BatchPredictionResult, error) {
	leagueID := strings.TrimSpace(input.LeagueID)
	if leagueID == "" {
		return BatchPredictionResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		return BatchPredictionResult{}, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return BatchPredictionResult{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.BatchPredictionService.PredictLeagueDay")
	defer span.End()

	fixtures, err := s.provider.FixturesByLeague(ctx, leagueID, date, date)
	if err != nil {
		return BatchPredictionResult{}, fmt.Errorf("list fixtures league_id=%s date=%s: %w", leagueID, date, err)
	}

	workerCount := normalizeBatchWorkerCount(input.MaxWorkers, len(fixtures))
	result := BatchPredictionResult{
		FixtureCount: len(fixtures),
		WorkerCount:  workerCount,
		Tasks:        make([]BatchPredictionTaskResult, 0, len(fixtures)),
	}
	if len(fixtures) == 0 {
		return result, nil
	}

	results := make(chan BatchPredictionTaskResult, len(fixtures))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchPredictionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, fixture := range fixtures {
		fixture := fixture
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := BatchPredictionTaskResult{
				MatchID:  fixture.MatchID,
				HomeTeam: fixture.HomeTeam,
				AwayTeam: fixture.AwayTeam,
			}

			predicted, predictErr := s.predictions.Predict(ctx, fixture.MatchID, input.Detailed)
			row.DurationMs = time.Since(start).Milliseconds()
			if predictErr != nil {
				row.Status = batchStatusFailed
				row.Message = predictErr.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "batch prediction task failed", "match_id", fixture.MatchID, "error", predictErr)
			} else {
				row.Status = batchStatusSuccess
				row.Prediction = &predicted
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return BatchPredictionResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].MatchID < result.Tasks[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func normalizeBatchWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultBatchWorkers
	}
	if count > maxBatchWorkers {
		count = maxBatchWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	if count < 1 {
		count = 1
	}
	return count
}
