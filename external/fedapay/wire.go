package fedapay

import "github.com/mawulip/pronostix/internal/domain/payment"

// FedaPay nests every entity under its versioned resource name.

type customerEntity struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

func (e customerEntity) toDomain() payment.Customer {
	return payment.Customer{
		ID:        e.ID,
		Firstname: e.Firstname,
		Lastname:  e.Lastname,
		Email:     e.Email,
	}
}

type transactionEntity struct {
	ID          int64  `json:"id"`
	Reference   string `json:"reference"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (e transactionEntity) toDomain() payment.Transaction {
	return payment.Transaction{
		ID:          e.ID,
		Reference:   e.Reference,
		Amount:      e.Amount,
		Status:      e.Status,
		Description: e.Description,
	}
}

type customerWire struct {
	Customer customerEntity `json:"v1/customer"`
}

type customerListWire struct {
	Customers []customerEntity `json:"v1/customers"`
}

type transactionWire struct {
	Transaction transactionEntity `json:"v1/transaction"`
}

type tokenWire struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}
