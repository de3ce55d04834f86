// Package decision defines the purchase-decision request and response types
// and the validation applied on both sides of the model call.
package decision

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Request is the client-supplied decision request. It exists only for the
// duration of one request and is never persisted.
type Request struct {
	Item        string             `json:"item"`
	Price       float64            `json:"price"`
	Currency    string             `json:"currency"`
	Category    string             `json:"category,omitempty"`
	IsRecurring bool               `json:"isRecurring,omitempty"`
	Frequency   string             `json:"frequency,omitempty"`
	Snapshot    *FinancialSnapshot `json:"snapshot"`
}

// FinancialSnapshot carries the caller's financial context. Missing numeric
// fields are treated as zero, not rejected.
type FinancialSnapshot struct {
	Balance           float64            `json:"balance"`
	MonthlyIncome     float64            `json:"monthlyIncome"`
	AvgDailySpending  float64            `json:"avgDailySpending"`
	RecurringExpenses float64            `json:"recurringExpenses"`
	DaysLeftInMonth   float64            `json:"daysLeftInMonth"`
	Last30DaySpend    float64            `json:"last30DaySpend"`
	AvgMonthlySpend   float64            `json:"avgMonthlySpend"`
	SavingsGoal       SavingsGoal        `json:"savingsGoal"`
	CategoryTotals    map[string]float64 `json:"categoryTotals"`
}

// SavingsGoal accepts either a number or a free-form string. The zero value
// (absent, empty string, or numeric zero) renders as the literal "none".
type SavingsGoal struct {
	raw string
	set bool
}

func (g *SavingsGoal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "" {
			g.raw, g.set = s, true
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if n != 0 {
			g.raw, g.set = strconv.FormatFloat(n, 'f', -1, 64), true
		}
		return nil
	}

	return fmt.Errorf("savingsGoal must be a number or string")
}

func (g SavingsGoal) String() string {
	if !g.set {
		return "none"
	}
	return g.raw
}

// Verdict values the model is allowed to return.
const (
	VerdictBuy  = "BUY"
	VerdictWait = "WAIT"
	VerdictNo   = "NO"
)

// Decision is the validated model output returned to the client verbatim.
type Decision struct {
	Decision   string   `json:"decision"`
	Confidence float64  `json:"confidence"`
	Reasoning  []string `json:"reasoning"`
	Suggestion string   `json:"suggestion"`
}
