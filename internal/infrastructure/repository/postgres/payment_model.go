package postgres

import (
	"time"

	"github.com/mawulip/pronostix/internal/domain/payment"
)

type paymentTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	Reference     string     `db:"reference"`
	Firstname     string     `db:"firstname"`
	Lastname      string     `db:"lastname"`
	Email         string     `db:"email"`
	Phone         string     `db:"phone"`
	Amount        int64      `db:"amount"`
	Currency      string     `db:"currency"`
	Status        string     `db:"status"`
	CustomerID    int64      `db:"gateway_customer_id"`
	TransactionID int64      `db:"gateway_transaction_id"`
	PaymentURL    string     `db:"payment_url"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type paymentInsertModel struct {
	PublicID      string `db:"public_id"`
	Reference     string `db:"reference"`
	Firstname     string `db:"firstname"`
	Lastname      string `db:"lastname"`
	Email         string `db:"email"`
	Phone         string `db:"phone"`
	Amount        int64  `db:"amount"`
	Currency      string `db:"currency"`
	Status        string `db:"status"`
	CustomerID    int64  `db:"gateway_customer_id"`
	TransactionID int64  `db:"gateway_transaction_id"`
	PaymentURL    string `db:"payment_url"`
}

func (m paymentTableModel) toDomain() payment.Payment {
	return payment.Payment{
		ID:            m.PublicID,
		Reference:     m.Reference,
		Firstname:     m.Firstname,
		Lastname:      m.Lastname,
		Email:         m.Email,
		Phone:         m.Phone,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Status:        m.Status,
		CustomerID:    m.CustomerID,
		TransactionID: m.TransactionID,
		PaymentURL:    m.PaymentURL,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
