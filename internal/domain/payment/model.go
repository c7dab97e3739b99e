package payment

import (
	"strings"
	"time"
)

const (
	StatusInitiated = "initiated"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
	StatusCanceled  = "canceled"
)

const DefaultCurrency = "XOF"

// Payment is one initiated mobile-money deposit. Reference is our own id;
// TransactionID and PaymentURL come back from the gateway.
type Payment struct {
	ID            string
	Reference     string
	Firstname     string
	Lastname      string
	Email         string
	Phone         string
	Amount        int64
	Currency      string
	Status        string
	CustomerID    int64
	TransactionID int64
	PaymentURL    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case StatusApproved, StatusDeclined, StatusCanceled:
		return status
	default:
		return StatusInitiated
	}
}
