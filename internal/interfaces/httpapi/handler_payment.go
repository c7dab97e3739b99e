package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/mawulip/pronostix/internal/usecase"
)

type initiatePaymentRequest struct {
	Firstname   string `json:"firstname" validate:"required,max=100"`
	Lastname    string `json:"lastname" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,max=20"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty,max=255"`
	CallbackURL string `json:"callback_url" validate:"omitempty,url"`
}

// InitiatePayment is the checkout entrypoint. Its wire shapes are fixed by
// the mobile clients: {"payment_url": ...} on success, {"error": ...} with a
// 400 or 500 otherwise, without the usual envelope.
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InitiatePayment")
	defer span.End()

	var req initiatePaymentRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFlatError(w, http.StatusBadRequest, "corps de requête invalide")
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.logger.WarnContext(ctx, "payment payload rejected", "error", err)
		writeFlatError(w, http.StatusBadRequest, "firstname, lastname, email, phone et amount sont requis")
		return
	}

	initiation, err := h.paymentService.InitiatePayment(ctx, usecase.InitiatePaymentInput{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Phone:       req.Phone,
		Amount:      req.Amount,
		Description: req.Description,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "payment initiation failed",
			"email", req.Email,
			"amount", req.Amount,
			"client_ip", resolveClientIP(r),
			"error", err,
		)
		writeFlatError(w, http.StatusInternalServerError, "échec de l'initiation du paiement")
		return
	}

	h.logger.InfoContext(ctx, "payment initiated",
		"reference", initiation.Reference,
		"client_ip", resolveClientIP(r),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]string{
		"payment_url": initiation.PaymentURL,
	})
}

func (h *Handler) ListPaymentsByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPaymentsByEmail")
	defer span.End()

	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(ctx, w, fmt.Errorf("%w: email query parameter is required", usecase.ErrInvalidInput))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	payments, err := h.paymentService.PaymentsByEmail(ctx, email, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list payments failed", "email", email, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]paymentDTO, 0, len(payments))
	for _, record := range payments {
		out = append(out, paymentDTO{
			Reference:     record.Reference,
			Email:         record.Email,
			Amount:        record.Amount,
			Currency:      record.Currency,
			Status:        record.Status,
			TransactionID: record.TransactionID,
			PaymentURL:    record.PaymentURL,
			CreatedAt:     record.CreatedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type confirmPaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=approved declined canceled"`
}

// ConfirmPaymentStatus records the outcome the gateway reported for one
// reference. Internal only; the reconciliation job calls it after polling
// FedaPay.
func (h *Handler) ConfirmPaymentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmPaymentStatus")
	defer span.End()

	reference := r.PathValue("reference")

	var req confirmPaymentRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: status must be approved, declined or canceled", usecase.ErrInvalidInput))
		return
	}

	record, err := h.paymentService.ConfirmPayment(ctx, reference, req.Status)
	if err != nil {
		h.logger.ErrorContext(ctx, "payment status confirmation failed", "reference", reference, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, paymentDTO{
		Reference:     record.Reference,
		Email:         record.Email,
		Amount:        record.Amount,
		Currency:      record.Currency,
		Status:        record.Status,
		TransactionID: record.TransactionID,
		PaymentURL:    record.PaymentURL,
		CreatedAt:     record.CreatedAt,
	})
}

func writeFlatError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]string{"error": message})
}
