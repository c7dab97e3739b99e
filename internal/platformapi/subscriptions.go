package platformapi

import (
	"context"
	"fmt"
	"time"

	"github.com/mawulip/pronostix/internal/domain/subscription"
	"github.com/mawulip/pronostix/internal/usecase"
)

// SubscriptionService is the typed façade over the subscription endpoints.
// It adds no retries and no business rules: entitlement decisions stay
// server-side.
type SubscriptionService struct {
	client *Client
	now    func() time.Time
}

func NewSubscriptionService(client *Client) *SubscriptionService {
	return &SubscriptionService{client: client, now: time.Now}
}

func (s *SubscriptionService) Plans(ctx context.Context) ([]subscription.Plan, error) {
	var decoded []planWire
	if err := s.client.get(ctx, "/api/subscription-plans/", &decoded); err != nil {
		return nil, err
	}

	plans := make([]subscription.Plan, 0, len(decoded))
	for _, item := range decoded {
		plans = append(plans, item.toDomain())
	}
	return plans, nil
}

func (s *SubscriptionService) List(ctx context.Context) ([]subscription.Subscription, error) {
	var decoded []subscriptionWire
	if err := s.client.get(ctx, "/subscriptions/", &decoded); err != nil {
		return nil, err
	}

	subs := make([]subscription.Subscription, 0, len(decoded))
	for _, item := range decoded {
		subs = append(subs, item.toDomain())
	}
	return subs, nil
}

type CreateSubscriptionInput struct {
	PlanID    int64 `json:"plan"`
	AutoRenew bool  `json:"auto_renew"`
}

func (s *SubscriptionService) Create(ctx context.Context, input CreateSubscriptionInput) (subscription.Subscription, error) {
	if input.PlanID <= 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: plan id is required", usecase.ErrInvalidInput)
	}

	var decoded subscriptionWire
	if err := s.client.post(ctx, "/subscriptions/", input, &decoded); err != nil {
		return subscription.Subscription{}, err
	}
	return decoded.toDomain(), nil
}

func (s *SubscriptionService) Get(ctx context.Context, id int64) (subscription.Subscription, error) {
	if id <= 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: subscription id is required", usecase.ErrInvalidInput)
	}

	var decoded subscriptionWire
	if err := s.client.get(ctx, fmt.Sprintf("/subscriptions/%d/", id), &decoded); err != nil {
		return subscription.Subscription{}, err
	}
	return decoded.toDomain(), nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, id int64) (subscription.Subscription, error) {
	return s.action(ctx, id, "cancel")
}

func (s *SubscriptionService) Renew(ctx context.Context, id int64) (subscription.Subscription, error) {
	return s.action(ctx, id, "renew")
}

type ChangePlanInput struct {
	PlanID int64 `json:"plan"`
}

func (s *SubscriptionService) ChangePlan(ctx context.Context, id int64, input ChangePlanInput) (subscription.Subscription, error) {
	if id <= 0 || input.PlanID <= 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: subscription id and plan id are required", usecase.ErrInvalidInput)
	}

	var decoded subscriptionWire
	if err := s.client.post(ctx, fmt.Sprintf("/subscriptions/%d/change_plan/", id), input, &decoded); err != nil {
		return subscription.Subscription{}, err
	}
	return decoded.toDomain(), nil
}

func (s *SubscriptionService) CheckStatus(ctx context.Context, id int64) (subscription.Subscription, error) {
	if id <= 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: subscription id is required", usecase.ErrInvalidInput)
	}

	var decoded subscriptionWire
	if err := s.client.get(ctx, fmt.Sprintf("/subscriptions/%d/check_status/", id), &decoded); err != nil {
		return subscription.Subscription{}, err
	}
	return decoded.toDomain(), nil
}

type InitiatePaymentInput struct {
	Phone string `json:"phone_number"`
}

type InitiatePaymentResult struct {
	PaymentURL string `json:"payment_url"`
}

func (s *SubscriptionService) InitiatePayment(ctx context.Context, id int64, input InitiatePaymentInput) (InitiatePaymentResult, error) {
	if id <= 0 {
		return InitiatePaymentResult{}, fmt.Errorf("%w: subscription id is required", usecase.ErrInvalidInput)
	}

	var decoded InitiatePaymentResult
	if err := s.client.post(ctx, fmt.Sprintf("/subscriptions/%d/initiate_payment/", id), input, &decoded); err != nil {
		return InitiatePaymentResult{}, err
	}
	return decoded, nil
}

// Current returns the caller's active subscription, or ok=false when none
// exists. This replaces the server-trusting variants: activity is always
// judged locally from status and end date.
func (s *SubscriptionService) Current(ctx context.Context) (subscription.Subscription, bool, error) {
	subs, err := s.List(ctx)
	if err != nil {
		return subscription.Subscription{}, false, err
	}

	now := s.now()
	for _, sub := range subs {
		if sub.IsActive(now) {
			return sub, true, nil
		}
	}
	return subscription.Subscription{}, false, nil
}

func (s *SubscriptionService) action(ctx context.Context, id int64, verb string) (subscription.Subscription, error) {
	if id <= 0 {
		return subscription.Subscription{}, fmt.Errorf("%w: subscription id is required", usecase.ErrInvalidInput)
	}

	var decoded subscriptionWire
	if err := s.client.post(ctx, fmt.Sprintf("/subscriptions/%d/%s/", id, verb), nil, &decoded); err != nil {
		return subscription.Subscription{}, err
	}
	return decoded.toDomain(), nil
}
