package platformapi

import (
	"context"
	"fmt"
	"time"

	"github.com/mawulip/pronostix/internal/domain/coupon"
	"github.com/mawulip/pronostix/internal/usecase"
)

// CouponService exposes the daily-coupon endpoints. Filtering by plan, risk
// and date happens client-side over the full list, the way the backend
// expects its consumers to work.
type CouponService struct {
	client *Client
	now    func() time.Time
}

func NewCouponService(client *Client) *CouponService {
	return &CouponService{client: client, now: time.Now}
}

func (s *CouponService) List(ctx context.Context) ([]coupon.Coupon, error) {
	var decoded []couponWire
	if err := s.client.get(ctx, "/coupons/", &decoded); err != nil {
		return nil, err
	}

	coupons := make([]coupon.Coupon, 0, len(decoded))
	for _, item := range decoded {
		coupons = append(coupons, item.toDomain())
	}
	return coupons, nil
}

func (s *CouponService) Get(ctx context.Context, id int64) (coupon.Coupon, error) {
	if id <= 0 {
		return coupon.Coupon{}, fmt.Errorf("%w: coupon id is required", usecase.ErrInvalidInput)
	}

	var decoded couponWire
	if err := s.client.get(ctx, fmt.Sprintf("/coupons/%d/", id), &decoded); err != nil {
		return coupon.Coupon{}, err
	}
	return decoded.toDomain(), nil
}

func (s *CouponService) Follow(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: coupon id is required", usecase.ErrInvalidInput)
	}
	return s.client.post(ctx, fmt.Sprintf("/coupons/%d/follow/", id), map[string]any{}, nil)
}

type UpdateCouponInput struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	OddsValue    *float64 `json:"odds_value,omitempty"`
	RiskLevel    *string  `json:"risk_level,omitempty"`
	RequiredPlan *string  `json:"required_plan,omitempty"`
}

func (s *CouponService) Update(ctx context.Context, id int64, input UpdateCouponInput) (coupon.Coupon, error) {
	if id <= 0 {
		return coupon.Coupon{}, fmt.Errorf("%w: coupon id is required", usecase.ErrInvalidInput)
	}

	var decoded couponWire
	if err := s.client.put(ctx, fmt.Sprintf("/coupons/%d/update/", id), input, &decoded); err != nil {
		return coupon.Coupon{}, err
	}
	return decoded.toDomain(), nil
}

func (s *CouponService) ListByPlan(ctx context.Context, planType string) ([]coupon.Coupon, error) {
	coupons, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := coupons[:0:0]
	for _, item := range coupons {
		if item.RequiredPlan == planType {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *CouponService) ListByRiskLevel(ctx context.Context, riskLevel string) ([]coupon.Coupon, error) {
	coupons, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := coupons[:0:0]
	for _, item := range coupons {
		if item.RiskLevel == riskLevel {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *CouponService) ListToday(ctx context.Context) ([]coupon.Coupon, error) {
	coupons, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := coupons[:0:0]
	for _, item := range coupons {
		if item.IsForToday(now) {
			out = append(out, item)
		}
	}
	return out, nil
}
