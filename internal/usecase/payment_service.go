package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/mawulip/pronostix/internal/domain/payment"
	"github.com/mawulip/pronostix/internal/platform/id"
	"github.com/mawulip/pronostix/internal/platform/logging"
)

// PaymentGateway is the payment provider surface the checkout flow needs.
type PaymentGateway interface {
	FindCustomerByEmail(ctx context.Context, email string) (*payment.Customer, error)
	CreateCustomer(ctx context.Context, input payment.CustomerInput) (payment.Customer, error)
	CreateTransaction(ctx context.Context, input payment.TransactionInput) (payment.Transaction, error)
	GenerateToken(ctx context.Context, transactionID int64) (payment.Token, error)
}

type InitiatePaymentInput struct {
	Firstname   string
	Lastname    string
	Email       string
	Phone       string
	Amount      int64
	Description string
	CallbackURL string
}

type PaymentInitiation struct {
	Reference     string
	TransactionID int64
	PaymentURL    string
}

// PaymentService drives the checkout flow against the gateway: find or
// create the customer, open a transaction, hand back the hosted payment URL.
// Every initiation is recorded for reconciliation.
type PaymentService struct {
	gateway PaymentGateway
	repo    payment.Repository
	ids     id.Generator
	logger  *logging.Logger
}

func NewPaymentService(gateway PaymentGateway, repo payment.Repository, ids id.Generator, logger *logging.Logger) (*PaymentService, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("payment repository is required")
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PaymentService{gateway: gateway, repo: repo, ids: ids, logger: logger}, nil
}

func (s *PaymentService) InitiatePayment(ctx context.Context, input InitiatePaymentInput) (PaymentInitiation, error) {
	input.Firstname = strings.TrimSpace(input.Firstname)
	input.Lastname = strings.TrimSpace(input.Lastname)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Firstname == "" || input.Lastname == "" || input.Email == "" || input.Phone == "" {
		return PaymentInitiation{}, fmt.Errorf("%w: firstname, lastname, email and phone are required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return PaymentInitiation{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.PaymentService.InitiatePayment")
	defer span.End()

	customer, err := s.gateway.FindCustomerByEmail(ctx, input.Email)
	if err != nil {
		if ctx.Err() != nil {
			return PaymentInitiation{}, ctx.Err()
		}
		// A failed lookup is not fatal; creation below settles it either way.
		s.logger.WarnContext(ctx, "customer lookup failed, creating instead", "error", err)
		customer = nil
	}
	if customer == nil {
		created, err := s.gateway.CreateCustomer(ctx, payment.CustomerInput{
			Firstname: input.Firstname,
			Lastname:  input.Lastname,
			Email:     input.Email,
			Phone:     input.Phone,
		})
		if err != nil {
			return PaymentInitiation{}, fmt.Errorf("create gateway customer: %w", err)
		}
		customer = &created
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = fmt.Sprintf("Paiement Pronostix - %s %s", input.Firstname, input.Lastname)
	}

	transaction, err := s.gateway.CreateTransaction(ctx, payment.TransactionInput{
		Description: description,
		Amount:      input.Amount,
		CallbackURL: strings.TrimSpace(input.CallbackURL),
		CustomerID:  customer.ID,
	})
	if err != nil {
		return PaymentInitiation{}, fmt.Errorf("create gateway transaction: %w", err)
	}

	token, err := s.gateway.GenerateToken(ctx, transaction.ID)
	if err != nil {
		return PaymentInitiation{}, fmt.Errorf("generate payment token: %w", err)
	}

	reference := strings.TrimSpace(transaction.Reference)
	if reference == "" {
		generated, err := s.ids.NewID()
		if err != nil {
			return PaymentInitiation{}, fmt.Errorf("generate payment reference: %w", err)
		}
		reference = generated
	}

	recordID, err := s.ids.NewID()
	if err != nil {
		return PaymentInitiation{}, fmt.Errorf("generate payment id: %w", err)
	}

	record := payment.Payment{
		ID:            recordID,
		Reference:     reference,
		Firstname:     input.Firstname,
		Lastname:      input.Lastname,
		Email:         input.Email,
		Phone:         input.Phone,
		Amount:        input.Amount,
		Currency:      payment.DefaultCurrency,
		Status:        payment.StatusInitiated,
		CustomerID:    customer.ID,
		TransactionID: transaction.ID,
		PaymentURL:    token.URL,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		// The payer already has a live checkout URL; losing the audit row is
		// an ops problem, not a checkout failure.
		s.logger.ErrorContext(ctx, "record initiated payment failed", "reference", reference, "error", err)
	}

	s.logger.InfoContext(ctx, "payment initiated",
		"reference", reference,
		"transaction_id", transaction.ID,
		"amount", input.Amount,
		"currency", payment.DefaultCurrency,
	)

	return PaymentInitiation{
		Reference:     reference,
		TransactionID: transaction.ID,
		PaymentURL:    token.URL,
	}, nil
}

// ConfirmPayment settles a recorded initiation after the gateway reports an
// outcome. Statuses outside the settled set (approved, declined, canceled)
// are rejected rather than silently reset.
func (s *PaymentService) ConfirmPayment(ctx context.Context, reference, status string) (payment.Payment, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return payment.Payment{}, fmt.Errorf("%w: payment reference is required", ErrInvalidInput)
	}

	normalized := payment.NormalizeStatus(status)
	if normalized == payment.StatusInitiated {
		return payment.Payment{}, fmt.Errorf("%w: status must be approved, declined or canceled", ErrInvalidInput)
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.PaymentService.ConfirmPayment")
	defer span.End()

	record, found, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("load payment %s: %w", reference, err)
	}
	if !found {
		return payment.Payment{}, fmt.Errorf("%w: payment %s", ErrNotFound, reference)
	}

	if err := s.repo.UpdateStatus(ctx, reference, normalized); err != nil {
		return payment.Payment{}, fmt.Errorf("update payment %s status: %w", reference, err)
	}
	record.Status = normalized

	s.logger.InfoContext(ctx, "payment status confirmed",
		"reference", reference,
		"status", normalized,
	)
	return record, nil
}

// PaymentsByEmail lists the recorded initiations for one payer.
func (s *PaymentService) PaymentsByEmail(ctx context.Context, email string, limit int) ([]payment.Payment, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByEmail(ctx, email, limit)
}
