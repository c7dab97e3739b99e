package usecase

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/domain/match"
	"github.com/mawulip/pronostix/internal/domain/prediction"
	"github.com/mawulip/pronostix/internal/platform/cache"
	"github.com/mawulip/pronostix/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultFormMatches = 5

// FootballDataProvider is the read surface of the football data API the
// prediction pipeline consumes.
type FootballDataProvider interface {
	Fixture(ctx context.Context, matchID string) (match.Fixture, error)
	HeadToHead(ctx context.Context, firstTeamID, secondTeamID string) (match.HeadToHead, error)
	Standings(ctx context.Context, leagueID string) ([]match.Standing, error)
	TeamLastMatches(ctx context.Context, teamID string, limit int) ([]match.Fixture, error)
	FixturesByLeague(ctx context.Context, leagueID, from, to string) ([]match.Fixture, error)
}

// ChatCompleter produces one JSON-constrained completion for a prompt pair.
type ChatCompleter interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type PredictionServiceConfig struct {
	Provider    FootballDataProvider
	LLM         ChatCompleter
	Cache       *cache.Store
	Logger      *logging.Logger
	FormMatches int
}

// PredictionService runs the match-prediction pipeline: gather context from
// the football data provider, ask the model, parse its answer. Results are
// cached for a short freshness window keyed by match and detail level, and
// concurrent requests for the same match share one pipeline run.
type PredictionService struct {
	provider    FootballDataProvider
	llm         ChatCompleter
	cache       *cache.Store
	logger      *logging.Logger
	formMatches int
}

func NewPredictionService(cfg PredictionServiceConfig) (*PredictionService, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("football data provider is required")
	}
	if cfg.LLM == nil {
		return nil, fmt.Errorf("chat completer is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("prediction cache is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	formMatches := cfg.FormMatches
	if formMatches <= 0 {
		formMatches = defaultFormMatches
	}

	return &PredictionService{
		provider:    cfg.Provider,
		llm:         cfg.LLM,
		cache:       cfg.Cache,
		logger:      logger,
		formMatches: formMatches,
	}, nil
}

func (s *PredictionService) Predict(ctx context.Context, matchID string, detailed bool) (prediction.MatchPrediction, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return prediction.MatchPrediction{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	key := fmt.Sprintf("match-prediction:%s:detailed=%t", matchID, detailed)
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) (prediction.MatchPrediction, error) {
		return s.predict(ctx, matchID, detailed)
	})
}

func (s *PredictionService) predict(ctx context.Context, matchID string, detailed bool) (prediction.MatchPrediction, error) {
	fixture, err := s.provider.Fixture(ctx, matchID)
	if err != nil {
		// Includes the unknown-match case; nothing else is fetched.
		return prediction.MatchPrediction{}, err
	}

	h2h, err := s.provider.HeadToHead(ctx, fixture.HomeTeamID, fixture.AwayTeamID)
	if err != nil {
		if ctx.Err() != nil {
			return prediction.MatchPrediction{}, ctx.Err()
		}
		s.logger.WarnContext(ctx, "head-to-head unavailable, predicting without it", "match_id", matchID, "error", err)
		h2h = match.HeadToHead{FirstTeam: fixture.HomeTeamID, SecondTeam: fixture.AwayTeamID}
	}

	var standings []match.Standing
	var homeForm, awayForm []match.Fixture

	// The three context fetches are independent; failures degrade the prompt
	// instead of failing the prediction.
	group := pool.New().WithContext(ctx)
	group.Go(func(ctx context.Context) error {
		rows, err := s.provider.Standings(ctx, fixture.LeagueID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WarnContext(ctx, "standings unavailable", "league_id", fixture.LeagueID, "error", err)
			return nil
		}
		standings = rows
		return nil
	})
	group.Go(func(ctx context.Context) error {
		rows, err := s.provider.TeamLastMatches(ctx, fixture.HomeTeamID, s.formMatches)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WarnContext(ctx, "home form unavailable", "team_id", fixture.HomeTeamID, "error", err)
			return nil
		}
		homeForm = rows
		return nil
	})
	group.Go(func(ctx context.Context) error {
		rows, err := s.provider.TeamLastMatches(ctx, fixture.AwayTeamID, s.formMatches)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.WarnContext(ctx, "away form unavailable", "team_id", fixture.AwayTeamID, "error", err)
			return nil
		}
		awayForm = rows
		return nil
	})
	if err := group.Wait(); err != nil {
		return prediction.MatchPrediction{}, err
	}

	systemPrompt, userPrompt := buildPredictionPrompt(fixture, h2h, standings, homeForm, awayForm, detailed)

	content, err := s.llm.CompleteJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return prediction.MatchPrediction{}, fmt.Errorf("model completion match_id=%s: %w", matchID, err)
	}

	parsed, err := parsePrediction(content)
	if err != nil {
		s.logger.WarnContext(ctx, "model answer did not parse", "match_id", matchID, "error", err)
		return prediction.MatchPrediction{}, err
	}

	if parsed.MatchID == "" {
		parsed.MatchID = fixture.MatchID
	}
	if parsed.HomeTeam == "" {
		parsed.HomeTeam = fixture.HomeTeam
	}
	if parsed.AwayTeam == "" {
		parsed.AwayTeam = fixture.AwayTeam
	}
	return parsed, nil
}

// parsePrediction decodes the model's answer. Fenced code blocks are
// unwrapped first; anything that then fails to decode as the expected object
// is an unparsable prediction, never a panic.
func parsePrediction(content string) (prediction.MatchPrediction, error) {
	cleaned := stripCodeFences(content)
	if cleaned == "" {
		return prediction.MatchPrediction{}, fmt.Errorf("%w: empty model answer", ErrUnparsablePrediction)
	}

	var parsed prediction.MatchPrediction
	if err := sonic.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return prediction.MatchPrediction{}, fmt.Errorf("%w: %v", ErrUnparsablePrediction, err)
	}
	return parsed, nil
}

func stripCodeFences(content string) string {
	cleaned := strings.TrimSpace(content)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}
