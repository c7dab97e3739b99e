package payment

// Gateway-side shapes. The payment provider owns these entities; we only
// carry the fields the checkout flow needs.

type Customer struct {
	ID        int64
	Firstname string
	Lastname  string
	Email     string
}

type CustomerInput struct {
	Firstname string
	Lastname  string
	Email     string
	Phone     string
}

type Transaction struct {
	ID          int64
	Reference   string
	Amount      int64
	Status      string
	Description string
}

type TransactionInput struct {
	Description string
	Amount      int64
	CallbackURL string
	CustomerID  int64
}

// Token is the hosted-checkout handoff. URL is where the payer gets sent.
type Token struct {
	Token string
	URL   string
}
