package prediction

// WinProbabilities are percentages as produced by the model. They should sum
// to roughly 100 but the upstream never guarantees it, so they are reported
// as-is.
type WinProbabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// MatchPrediction is the ephemeral output of one pipeline run. It is cached
// for a short freshness window but never persisted.
type MatchPrediction struct {
	MatchID          string           `json:"match_id"`
	HomeTeam         string           `json:"home_team"`
	AwayTeam         string           `json:"away_team"`
	PredictedWinner  string           `json:"predicted_winner,omitempty"`
	WinProbabilities WinProbabilities `json:"win_probabilities"`
	PredictedScore   Score            `json:"predicted_score"`
	ConfidenceLevel  float64          `json:"confidence_level"`
	RecommendedBet   string           `json:"recommended_bet,omitempty"`
	KeyFactors       []string         `json:"key_factors,omitempty"`
	DetailedAnalysis string           `json:"detailed_analysis"`
}

func (p MatchPrediction) Confident() bool {
	return p.ConfidenceLevel >= 70
}
