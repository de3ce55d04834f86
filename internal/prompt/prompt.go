// Package prompt renders the two instruction blocks sent to the model. The
// stage is pure: same request in, same strings out, no I/O.
package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pezo-app/pezo-ai-gateway/internal/decision"
)

// System fixes the output contract for the model: strict JSON, the decision
// enum, confidence range, bullet and suggestion caps, and the
// WAIT-on-insufficient-data policy.
const System = `You are Pezo, a conservative and practical spending coach.

You do NOT provide financial/investment advice.

Decide only based on provided data.

Output STRICT JSON ONLY. No markdown, no code blocks, just pure JSON.

Response format:
{
  "decision": "BUY" | "WAIT" | "NO",
  "confidence": 0-100,
  "reasoning": ["bullet point 1", "bullet point 2", "bullet point 3"],
  "suggestion": "one short action sentence"
}

Rules:
- decision: "BUY" if affordable and reasonable, "WAIT" if uncertain or insufficient data, "NO" if clearly unaffordable
- confidence: 0-100 integer
- reasoning: exactly 3 bullet points (strings), max 100 chars each
- suggestion: one short actionable sentence, max 80 chars
- If insufficient data: decision = "WAIT", confidence <= 60`

const userTemplate = `Purchase decision needed:

Item: %s
Price: %s %s
Category: %s

Financial snapshot:
- Current balance: %s %s
- Monthly income: %s %s
- Average daily spending: %s %s
- Recurring expenses: %s %s
- Days left in month: %s
- Savings goal: %s %s
- Last 30 day spend: %s %s
- Average monthly spend: %s %s
- Category totals: %s

%s

Provide your decision as JSON only.`

// User interpolates the validated request into the user instruction. Missing
// optional fields are filled with their documented defaults; this never fails.
func User(req *decision.Request) string {
	category := req.Category
	if category == "" {
		category = "Other"
	}

	snap := req.Snapshot
	if snap == nil {
		snap = &decision.FinancialSnapshot{}
	}

	totals := "{}"
	if snap.CategoryTotals != nil {
		if b, err := json.Marshal(snap.CategoryTotals); err == nil {
			totals = string(b)
		}
	}

	recurringNote := ""
	if req.IsRecurring {
		freq := req.Frequency
		if freq == "" {
			freq = "monthly"
		}
		recurringNote = fmt.Sprintf("Note: This is a recurring %s expense.", freq)
	}

	cur := req.Currency
	return fmt.Sprintf(userTemplate,
		req.Item,
		num(req.Price), cur,
		category,
		num(snap.Balance), cur,
		num(snap.MonthlyIncome), cur,
		num(snap.AvgDailySpending), cur,
		num(snap.RecurringExpenses), cur,
		num(snap.DaysLeftInMonth),
		snap.SavingsGoal.String(), cur,
		num(snap.Last30DaySpend), cur,
		num(snap.AvgMonthlySpend), cur,
		totals,
		recurringNote,
	)
}

// Build renders both instruction blocks.
func Build(req *decision.Request) (system, user string) {
	return System, User(req)
}

// num renders floats without a trailing .0 for integral values, so 80
// interpolates as "80" and 79.5 as "79.5".
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
