package platformapi

import (
	"strings"
	"time"

	"github.com/mawulip/pronostix/internal/domain/coupon"
	"github.com/mawulip/pronostix/internal/domain/subscription"
	"github.com/mawulip/pronostix/internal/domain/user"
)

// Wire shapes are kept apart from the domain models on purpose: the backend
// serializes a few fields oddly (string-typed booleans, date-only strings)
// and the conversion functions below are the single place that knows it.

type userWire struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func (w userWire) toDomain() user.Snapshot {
	return user.Snapshot{
		ID:        w.ID,
		Username:  w.Username,
		Email:     w.Email,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		AvatarURL: w.Avatar,
	}
}

type planWire struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	PlanType     string         `json:"plan_type"`
	Price        float64        `json:"price"`
	DurationDays int            `json:"duration_days"`
	Description  string         `json:"description"`
	Features     map[string]any `json:"features"`
}

func (w planWire) toDomain() subscription.Plan {
	return subscription.Plan{
		ID:           w.ID,
		Name:         w.Name,
		PlanType:     subscription.NormalizePlanType(w.PlanType),
		Price:        w.Price,
		DurationDays: w.DurationDays,
		Description:  w.Description,
		Features:     w.Features,
	}
}

type subscriptionWire struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user"`
	PlanID        int64  `json:"plan"`
	Status        string `json:"status"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	AutoRenew     bool   `json:"auto_renew"`
	ReferenceID   string `json:"reference_id"`
	TransactionID string `json:"transaction_id"`
}

func (w subscriptionWire) toDomain() subscription.Subscription {
	status := strings.ToLower(strings.TrimSpace(w.Status))
	if !subscription.IsValidStatus(status) {
		status = subscription.StatusPending
	}
	return subscription.Subscription{
		ID:            w.ID,
		UserID:        w.UserID,
		PlanID:        w.PlanID,
		Status:        status,
		StartDate:     parseWireTime(w.StartDate),
		EndDate:       parseWireTime(w.EndDate),
		AutoRenew:     w.AutoRenew,
		ReferenceID:   w.ReferenceID,
		TransactionID: w.TransactionID,
	}
}

type selectionWire struct {
	ID     int64   `json:"id"`
	Match  string  `json:"match"`
	Pick   string  `json:"pick"`
	Odds   float64 `json:"odds"`
	Result *string `json:"result"`
}

type couponWire struct {
	ID           int64           `json:"id"`
	Date         string          `json:"date"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	OddsValue    float64         `json:"odds_value"`
	RiskLevel    string          `json:"risk_level"`
	RequiredPlan string          `json:"required_plan"`
	Selections   []selectionWire `json:"selections"`
	// The backend sends this flag as the strings "true"/"false".
	IsAccessible string `json:"is_accessible"`
}

func (w couponWire) toDomain() coupon.Coupon {
	selections := make([]coupon.Selection, 0, len(w.Selections))
	for _, sel := range w.Selections {
		selections = append(selections, coupon.Selection{
			ID:     sel.ID,
			Match:  sel.Match,
			Pick:   sel.Pick,
			Odds:   sel.Odds,
			Result: sel.Result,
		})
	}

	return coupon.Coupon{
		ID:           w.ID,
		Date:         parseWireTime(w.Date),
		Title:        w.Title,
		Description:  w.Description,
		RiskLevel:    coupon.NormalizeRiskLevel(w.RiskLevel),
		RequiredPlan: subscription.NormalizePlanType(w.RequiredPlan),
		OddsValue:    w.OddsValue,
		Selections:   selections,
		Accessible:   strings.EqualFold(strings.TrimSpace(w.IsAccessible), "true"),
	}
}

func parseWireTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
