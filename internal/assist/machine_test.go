package assist

import (
	"strings"
	"testing"

	"github.com/mkowalik/carscout/internal/rank"
)

func TestConversationDerivesCityAndBudgetContext(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, reply := m.Start()
	if reply.Step != StepUsage || len(reply.Options) == 0 {
		t.Fatalf("unexpected opening reply: %+v", reply)
	}

	st, reply, search := m.Advance(st, "City driving and parking")
	if search {
		t.Fatal("answering a question must not trigger search")
	}
	if reply.Step != StepBudget {
		t.Fatalf("expected budget step next, got %s", reply.Step)
	}
	if st.Context.Usage != rank.UsageCity {
		t.Fatalf("usage context = %q, want city", st.Context.Usage)
	}
	if len(st.Context.Priorities) == 0 {
		t.Fatal("city usage must derive priority tags")
	}

	st, _, _ = m.Advance(st, "Under 20,000 PLN")
	if st.Context.BudgetMax == nil || *st.Context.BudgetMax != 20000 {
		t.Fatalf("budget context = %+v, want max 20000", st.Context.BudgetMax)
	}
	if st.Context.BudgetMin != nil {
		t.Fatalf("open lower bound expected, got %v", *st.Context.BudgetMin)
	}
}

func TestSelectedOptionIDResolvesLikeLabel(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, _ := m.Start()
	st, _, _ = m.Advance(st, "family")
	if st.Context.Usage != rank.UsageFamily {
		t.Fatalf("option ID must resolve, got usage %q", st.Context.Usage)
	}
}

func TestUnrecognizedAnswerIsKeptButDerivesNothing(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, _ := m.Start()
	st, reply, _ := m.Advance(st, "something about trams")
	if st.Answers[string(StepUsage)] != "something about trams" {
		t.Fatalf("raw answer not stored: %v", st.Answers)
	}
	if st.Context.Usage != "" {
		t.Fatalf("unrecognized answer must derive no context, got %q", st.Context.Usage)
	}
	if reply.Step != StepBudget {
		t.Fatalf("flow must continue regardless, got step %s", reply.Step)
	}
}

func TestEarlySearchCommandDoesNotTriggerResults(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, _ := m.Start()
	st, reply, search := m.Advance(st, "search")
	if search {
		t.Fatal("search must be rejected before final_preferences")
	}
	if reply.Step != StepBudget {
		t.Fatalf("early search is a plain answer, expected budget step, got %s", reply.Step)
	}
}

func TestSearchAcceptedAtFinalPreferences(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, _ := m.Start()
	for _, answer := range []string{"city", "under_20k", "small", "petrol", "under_10"} {
		var search bool
		st, _, search = m.Advance(st, answer)
		if search {
			t.Fatalf("search triggered while answering %q", answer)
		}
	}
	if st.Step != StepFinal {
		t.Fatalf("expected final_preferences after five answers, got %s", st.Step)
	}

	st, _, search := m.Advance(st, "low insurance costs please")
	if search {
		t.Fatal("a free-text note must not trigger search")
	}
	if st.Step != StepReady {
		t.Fatalf("expected ready_to_search after a note, got %s", st.Step)
	}
	if len(st.Context.Notes) != 1 {
		t.Fatalf("note not stored: %v", st.Context.Notes)
	}

	_, reply, search := m.Advance(st, "SEARCH")
	if !search {
		t.Fatal("search command must be accepted at ready_to_search")
	}
	if !reply.ShowSearch {
		t.Fatal("search reply must keep the search affordance visible")
	}
}

func TestBuildFilterFromContext(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, _ := m.Start()
	for _, answer := range []string{"city", "20_40k", "compact", "diesel", "under_5"} {
		st, _, _ = m.Advance(st, answer)
	}
	f := BuildFilter(st.Context, 200)
	if f.FuelType != "Diesel" {
		t.Fatalf("fuel filter = %q", f.FuelType)
	}
	if f.PriceMin == nil || *f.PriceMin != 20000 || f.PriceMax == nil || *f.PriceMax != 40000 {
		t.Fatalf("budget filter wrong: min=%v max=%v", f.PriceMin, f.PriceMax)
	}
	if f.YearMin == nil || *f.YearMin != 2020 {
		t.Fatalf("year filter = %+v, want 2020", f.YearMin)
	}
	if f.Limit != 200 {
		t.Fatalf("limit = %d", f.Limit)
	}
}

func TestSummaryListsAnswersAndNotes(t *testing.T) {
	m := &Machine{CurrentYear: 2025}
	st, _ := m.Start()
	st, _, _ = m.Advance(st, "City driving and parking")
	st, _, _ = m.Advance(st, "Under 20,000 PLN")
	st.Context.Notes = append(st.Context.Notes, "red if possible")

	got := Summary(st)
	for _, want := range []string{"Usage: City driving and parking", "Budget: Under 20,000 PLN", "red if possible"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary %q missing %q", got, want)
		}
	}
}
