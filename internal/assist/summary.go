package assist

import (
	"fmt"
	"strings"
)

var summaryLabels = []struct {
	step  Step
	label string
}{
	{StepUsage, "Usage"},
	{StepBudget, "Budget"},
	{StepSize, "Size"},
	{StepFuel, "Fuel"},
	{StepAge, "Age"},
}

// Summary renders the accumulated preferences as one human-readable line,
// shown next to the assistant's search results.
func Summary(st State) string {
	var parts []string
	for _, sl := range summaryLabels {
		if v, ok := st.Answers[string(sl.step)]; ok && v != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", sl.label, v))
		}
	}
	if len(st.Context.Notes) > 0 {
		parts = append(parts, "Notes: "+strings.Join(st.Context.Notes, "; "))
	}
	if len(parts) == 0 {
		return "No preferences stated yet."
	}
	return strings.Join(parts, " | ")
}
