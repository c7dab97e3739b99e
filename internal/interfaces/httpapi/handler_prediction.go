package httpapi

import (
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/usecase"
)

func (h *Handler) GetMatchPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPrediction")
	defer span.End()

	matchID := r.PathValue("matchID")
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	result, err := h.predictionService.Predict(ctx, matchID, detailed)
	if err != nil {
		h.logger.ErrorContext(ctx, "match prediction failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toPredictionDTO(result))
}

type batchPredictionRequest struct {
	LeagueID   string `json:"league_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Detailed   bool   `json:"detailed"`
	MaxWorkers int    `json:"max_workers" validate:"omitempty,gte=1,lte=16"`
}

func (h *Handler) RunDailyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyPredictions")
	defer span.End()

	var req batchPredictionRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, usecase.ErrInvalidInput)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.batchService.PredictLeagueDay(ctx, usecase.BatchPredictionInput{
		LeagueID:   req.LeagueID,
		Date:       req.Date,
		Detailed:   req.Detailed,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "daily predictions failed", "league_id", req.LeagueID, "date", req.Date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toBatchResultDTO(result))
}
