package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mawulip/pronostix/internal/domain/payment"
	qb "github.com/mawulip/pronostix/internal/platform/querybuilder"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, record payment.Payment) (payment.Payment, error) {
	if strings.TrimSpace(record.ID) == "" {
		return payment.Payment{}, fmt.Errorf("payment id is required")
	}
	if strings.TrimSpace(record.Reference) == "" {
		return payment.Payment{}, fmt.Errorf("payment reference is required")
	}

	currency := record.Currency
	if currency == "" {
		currency = payment.DefaultCurrency
	}

	model := paymentInsertModel{
		PublicID:      record.ID,
		Reference:     record.Reference,
		Firstname:     record.Firstname,
		Lastname:      record.Lastname,
		Email:         record.Email,
		Phone:         record.Phone,
		Amount:        record.Amount,
		Currency:      currency,
		Status:        payment.NormalizeStatus(record.Status),
		CustomerID:    record.CustomerID,
		TransactionID: record.TransactionID,
		PaymentURL:    record.PaymentURL,
	}

	query, args, err := qb.InsertModel("payments", model, "RETURNING *")
	if err != nil {
		return payment.Payment{}, fmt.Errorf("build insert payment query: %w", err)
	}

	var row paymentTableModel
	if err := r.getRetry(ctx, &row, query, args...); err != nil {
		return payment.Payment{}, fmt.Errorf("insert payment reference=%s: %w", record.Reference, err)
	}

	return row.toDomain(), nil
}

// getRetry runs GetContext and retries once when the error is a
// pgbouncer prepared-statement protocol failure.
func (r *PaymentRepository) getRetry(ctx context.Context, dest any, query string, args ...any) error {
	err := r.db.GetContext(ctx, dest, query, args...)
	if err == nil || !isRetryableStmtError(err) {
		return err
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (payment.Payment, bool, error) {
	query, args, err := qb.Select("*").From("payments").
		Where(
			qb.Eq("reference", reference),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return payment.Payment{}, false, fmt.Errorf("build get payment by reference query: %w", err)
	}

	var row paymentTableModel
	if err := r.getRetry(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return payment.Payment{}, false, nil
		}
		return payment.Payment{}, false, fmt.Errorf("get payment by reference: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, reference, status string) error {
	query, args, err := qb.Update("payments").
		Set("status", payment.NormalizeStatus(status)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("reference", reference),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update payment status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update payment status reference=%s: %w", reference, err)
	}

	return nil
}

func (r *PaymentRepository) ListByEmail(ctx context.Context, email string, limit int) ([]payment.Payment, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("payments").
		Where(
			qb.Eq("email", email),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list payments by email query: %w", err)
	}

	var rows []paymentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list payments by email: %w", err)
	}

	out := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
