package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mawulip/pronostix/internal/domain/payment"
)

// PaymentRepository keeps initiated payments in memory. Useful for tests and
// for running without a database.
type PaymentRepository struct {
	mu    sync.RWMutex
	items map[string]payment.Payment
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		items: make(map[string]payment.Payment),
	}
}

func (r *PaymentRepository) Create(_ context.Context, record payment.Payment) (payment.Payment, error) {
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.Currency == "" {
		record.Currency = payment.DefaultCurrency
	}
	record.Status = payment.NormalizeStatus(record.Status)

	r.mu.Lock()
	r.items[record.Reference] = record
	r.mu.Unlock()

	return record, nil
}

func (r *PaymentRepository) GetByReference(_ context.Context, reference string) (payment.Payment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.items[reference]
	if !ok {
		return payment.Payment{}, false, nil
	}

	return record, true, nil
}

func (r *PaymentRepository) UpdateStatus(_ context.Context, reference, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.items[reference]
	if !ok {
		return nil
	}

	record.Status = payment.NormalizeStatus(status)
	record.UpdatedAt = time.Now().UTC()
	r.items[reference] = record

	return nil
}

func (r *PaymentRepository) ListByEmail(_ context.Context, email string, limit int) ([]payment.Payment, error) {
	r.mu.RLock()
	out := make([]payment.Payment, 0, len(r.items))
	for _, record := range r.items {
		if record.Email == email {
			out = append(out, record)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
