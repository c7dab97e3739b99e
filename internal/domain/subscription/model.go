package subscription

import (
	"strconv"
	"strings"
	"time"
)

const (
	PlanBasic   = "basic"
	PlanPremium = "premium"
	PlanVIP     = "vip"
)

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Plan is a purchasable subscription tier. Read-only from the client side.
type Plan struct {
	ID           int64
	Name         string
	PlanType     string
	Price        float64
	DurationDays int
	Description  string
	Features     map[string]any
}

// Subscription is one user's purchase of a Plan. Status transitions are
// server-driven; the client only reads them back.
type Subscription struct {
	ID            int64
	UserID        int64
	PlanID        int64
	Status        string
	StartDate     time.Time
	EndDate       time.Time
	AutoRenew     bool
	ReferenceID   string
	TransactionID string
}

func NormalizePlanType(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case PlanPremium:
		return PlanPremium
	case PlanVIP:
		return PlanVIP
	default:
		return PlanBasic
	}
}

func IsValidStatus(value string) bool {
	switch value {
	case StatusPending, StatusActive, StatusCanceled, StatusExpired:
		return true
	default:
		return false
	}
}

func (s Subscription) IsActive(now time.Time) bool {
	return s.Status == StatusActive && now.Before(s.EndDate)
}

// DaysRemaining is always derived from EndDate. The server also reports a
// days_remaining field on some endpoints; it is ignored so every caller sees
// one consistent value.
func (s Subscription) DaysRemaining(now time.Time) int {
	if !now.Before(s.EndDate) {
		return 0
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}

// FeatureLabel renders a plan feature value for display. Boolean flags render
// as the French labels the product has always shown.
func FeatureLabel(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Oui"
		}
		return "Non"
	case string:
		return v
	case nil:
		return ""
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
