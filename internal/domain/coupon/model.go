package coupon

import (
	"strings"
	"time"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

const (
	ResultWin     = "win"
	ResultLoss    = "loss"
	ResultPending = "pending"
)

// Selection is one pick inside a coupon. Result is nil until the backend
// settles the match.
type Selection struct {
	ID     int64
	Match  string
	Pick   string
	Odds   float64
	Result *string
}

// Coupon is a bundled set of betting selections gated by subscription tier.
// Accessible is a real boolean here; the backend serializes it as the strings
// "true"/"false" and the service boundary normalizes it.
type Coupon struct {
	ID           int64
	Date         time.Time
	Title        string
	Description  string
	RiskLevel    string
	RequiredPlan string
	OddsValue    float64
	Selections   []Selection
	Accessible   bool
}

func NormalizeRiskLevel(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case RiskHigh:
		return RiskHigh
	case RiskMedium:
		return RiskMedium
	default:
		return RiskLow
	}
}

func (c Coupon) IsForToday(now time.Time) bool {
	y1, m1, d1 := c.Date.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TotalOdds recomputes the combined odds from the selections. OddsValue is
// server-provided and may disagree after a selection edit; callers that need
// the authoritative number use this.
func (c Coupon) TotalOdds() float64 {
	if len(c.Selections) == 0 {
		return c.OddsValue
	}
	total := 1.0
	for _, sel := range c.Selections {
		if sel.Odds > 0 {
			total *= sel.Odds
		}
	}
	return total
}
