package httpapi

import (
	"time"

	"github.com/mawulip/pronostix/internal/domain/prediction"
	"github.com/mawulip/pronostix/internal/usecase"
)

type paymentDTO struct {
	Reference     string    `json:"reference"`
	Email         string    `json:"email"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	TransactionID int64     `json:"transaction_id"`
	PaymentURL    string    `json:"payment_url"`
	CreatedAt     time.Time `json:"created_at"`
}

type predictionDTO struct {
	MatchID          string   `json:"match_id"`
	HomeTeam         string   `json:"home_team"`
	AwayTeam         string   `json:"away_team"`
	PredictedWinner  string   `json:"predicted_winner,omitempty"`
	HomeWinPct       float64  `json:"home_win_pct"`
	DrawPct          float64  `json:"draw_pct"`
	AwayWinPct       float64  `json:"away_win_pct"`
	PredictedHome    int      `json:"predicted_home_score"`
	PredictedAway    int      `json:"predicted_away_score"`
	ConfidenceLevel  float64  `json:"confidence_level"`
	RecommendedBet   string   `json:"recommended_bet,omitempty"`
	KeyFactors       []string `json:"key_factors,omitempty"`
	DetailedAnalysis string   `json:"detailed_analysis,omitempty"`
}

type batchTaskDTO struct {
	MatchID    string         `json:"match_id"`
	HomeTeam   string         `json:"home_team"`
	AwayTeam   string         `json:"away_team"`
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Prediction *predictionDTO `json:"prediction,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

type batchResultDTO struct {
	FixtureCount int            `json:"fixture_count"`
	WorkerCount  int            `json:"worker_count"`
	SuccessCount int            `json:"success_count"`
	FailedCount  int            `json:"failed_count"`
	Tasks        []batchTaskDTO `json:"tasks"`
}

func toPredictionDTO(p prediction.MatchPrediction) predictionDTO {
	return predictionDTO{
		MatchID:          p.MatchID,
		HomeTeam:         p.HomeTeam,
		AwayTeam:         p.AwayTeam,
		PredictedWinner:  p.PredictedWinner,
		HomeWinPct:       p.WinProbabilities.Home,
		DrawPct:          p.WinProbabilities.Draw,
		AwayWinPct:       p.WinProbabilities.Away,
		PredictedHome:    p.PredictedScore.Home,
		PredictedAway:    p.PredictedScore.Away,
		ConfidenceLevel:  p.ConfidenceLevel,
		RecommendedBet:   p.RecommendedBet,
		KeyFactors:       p.KeyFactors,
		DetailedAnalysis: p.DetailedAnalysis,
	}
}

func toBatchResultDTO(result usecase.BatchPredictionResult) batchResultDTO {
	tasks := make([]batchTaskDTO, 0, len(result.Tasks))
	for _, task := range result.Tasks {
		row := batchTaskDTO{
			MatchID:    task.MatchID,
			HomeTeam:   task.HomeTeam,
			AwayTeam:   task.AwayTeam,
			Status:     task.Status,
			Message:    task.Message,
			DurationMs: task.DurationMs,
		}
		if task.Prediction != nil {
			dto := toPredictionDTO(*task.Prediction)
			row.Prediction = &dto
		}
		tasks = append(tasks, row)
	}

	return batchResultDTO{
		FixtureCount: result.FixtureCount,
		WorkerCount:  result.WorkerCount,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		Tasks:        tasks,
	}
}
