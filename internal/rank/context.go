package rank

import "github.com/mkowalik/carscout/models"

// Usage categories derived from the conversation.
const (
	UsageCity    = "city"
	UsageFamily  = "family"
	UsageHighway = "highway"
	UsageMixed   = "mixed"
)

// Context carries the structured preferences accumulated by the assistant:
// usage category, priority tags, budget envelope and derived filter bounds.
type Context struct {
	Usage      string
	Priorities []string
	BudgetMin  *float64
	BudgetMax  *float64
	FuelType   string
	YearMin    *int
	Notes      []string
}

// HasBudget reports whether at least one budget bound was stated.
func (c Context) HasBudget() bool {
	return c.BudgetMin != nil || c.BudgetMax != nil
}

// ContextScorer applies flat rule bonuses gated by conversation context. No
// calibration, no sharpening: every rule contribution is a fixed amount.
type ContextScorer struct {
	Ctx         Context
	CurrentYear int
}

func (s ContextScorer) Score(l models.Listing) float64 {
	score := 0.0

	if l.Price != nil && s.Ctx.HasBudget() && s.withinBudget(*l.Price) {
		score += 0.3
	}
	if s.Ctx.Usage == UsageCity && l.Mileage != nil && *l.Mileage < 100000 {
		score += 0.2
	}
	if s.Ctx.Usage == UsageFamily && l.Year != nil && *l.Year >= 2015 {
		score += 0.3
	}
	if s.Ctx.Usage == UsageHighway && l.PowerHP != nil && *l.PowerHP >= 120 {
		score += 0.2
	}
	if l.Year != nil {
		age := float64(s.CurrentYear - *l.Year)
		recency := (20 - age) / 20
		if recency > 0 {
			score += 0.2 * recency
		}
	}
	if l.Link != nil && *l.Link != "" {
		score += 0.05
	}
	if l.Price != nil && l.Mileage != nil && l.Year != nil && l.PowerHP != nil {
		score += 0.1
	}
	return score
}

func (s ContextScorer) withinBudget(price float64) bool {
	if s.Ctx.BudgetMin != nil && price < *s.Ctx.BudgetMin {
		return false
	}
	if s.Ctx.BudgetMax != nil && price > *s.Ctx.BudgetMax {
		return false
	}
	return true
}
