package payment

import "context"

// Repository persists initiated payments for reconciliation.
type Repository interface {
	Create(ctx context.Context, record Payment) (Payment, error)
	GetByReference(ctx context.Context, reference string) (Payment, bool, error)
	UpdateStatus(ctx context.Context, reference, status string) error
	ListByEmail(ctx context.Context, email string, limit int) ([]Payment, error)
}
