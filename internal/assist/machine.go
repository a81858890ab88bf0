package assist

import (
	"strings"

	"github.com/mkowalik/carscout/internal/rank"
	"github.com/mkowalik/carscout/models"
)

// Step is one stage of the guided conversation. The flow is linear; the only
// way back is starting over.
type Step string

const (
	StepUsage  Step = "usage"
	StepBudget Step = "budget"
	StepSize   Step = "size"
	StepFuel   Step = "fuel"
	StepAge    Step = "age"
	StepFinal  Step = "final_preferences"
	StepReady  Step = "ready_to_search"
)

// SearchCommand triggers result generation from the two last steps.
const SearchCommand = "search"

// Option is a selectable answer. The ID is the stable identifier the context
// tables key on; the label is presentation text and free to change.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// State is the per-session conversation state: current step, raw answers
// keyed by step name, and the derived structured context.
type State struct {
	Step    Step              `json:"step"`
	Answers map[string]string `json:"answers"`
	Context rank.Context      `json:"context"`
}

// Reply is one conversational turn returned to the chat front end.
type Reply struct {
	Message    string   `json:"message"`
	Options    []Option `json:"options,omitempty"`
	Step       Step     `json:"step"`
	ShowSearch bool     `json:"show_search,omitempty"`
}

type promptSpec struct {
	message    string
	options    []Option
	showSearch bool
}

var prompts = map[Step]promptSpec{
	StepUsage: {
		message: "Hi! I'll help you pick a car. What will you mostly use it for?",
		options: []Option{
			{ID: "city", Label: "City driving and parking"},
			{ID: "family", Label: "Family trips and comfort"},
			{ID: "highway", Label: "Long highway routes"},
			{ID: "mixed", Label: "A bit of everything"},
		},
	},
	StepBudget: {
		message: "What's your budget?",
		options: []Option{
			{ID: "under_20k", Label: "Under 20,000 PLN"},
			{ID: "20_40k", Label: "20,000 - 40,000 PLN"},
			{ID: "40_70k", Label: "40,000 - 70,000 PLN"},
			{ID: "over_70k", Label: "Above 70,000 PLN"},
		},
	},
	StepSize: {
		message: "What size car suits you?",
		options: []Option{
			{ID: "small", Label: "Small city car"},
			{ID: "compact", Label: "Compact"},
			{ID: "suv", Label: "SUV / crossover"},
			{ID: "any_size", Label: "No preference"},
		},
	},
	StepFuel: {
		message: "Preferred fuel type?",
		options: []Option{
			{ID: "petrol", Label: "Petrol"},
			{ID: "diesel", Label: "Diesel"},
			{ID: "hybrid", Label: "Hybrid"},
			{ID: "any_fuel", Label: "No preference"},
		},
	},
	StepAge: {
		message: "How old can the car be?",
		options: []Option{
			{ID: "under_5", Label: "Newer than 5 years"},
			{ID: "under_10", Label: "Newer than 10 years"},
			{ID: "any_age", Label: "Age doesn't matter"},
		},
	},
	StepFinal: {
		message:    "Got it. Tell me anything else that matters, or type \"search\" to see matching cars.",
		showSearch: true,
	},
	StepReady: {
		message:    "Noted. Type \"search\" whenever you're ready.",
		showSearch: true,
	},
}

// stepOrder drives the linear transition sequence.
var stepOrder = []Step{StepUsage, StepBudget, StepSize, StepFuel, StepAge, StepFinal}

// Machine advances conversation states. It holds no mutable state itself;
// everything request-scoped lives in State.
type Machine struct {
	CurrentYear int
}

// Start returns a fresh state positioned at the first question.
func (m *Machine) Start() (State, Reply) {
	st := State{
		Step:    StepUsage,
		Answers: map[string]string{},
	}
	return st, m.prompt(st.Step)
}

// Advance records the user's answer for the current step, derives context,
// and moves the machine forward. doSearch is true only when the search
// command is accepted: at final_preferences or ready_to_search. Anywhere
// earlier the command text counts as a plain answer, so an out-of-sequence
// "search" can never trigger result generation.
func (m *Machine) Advance(st State, input string) (State, Reply, bool) {
	if st.Answers == nil {
		st.Answers = map[string]string{}
	}
	if st.Step == "" {
		st.Step = StepUsage
	}
	input = strings.TrimSpace(input)

	if st.Step == StepFinal || st.Step == StepReady {
		if strings.EqualFold(input, SearchCommand) {
			st.Step = StepReady
			return st, Reply{Message: "Searching...", Step: st.Step, ShowSearch: true}, true
		}
		if input != "" {
			st.Context.Notes = append(st.Context.Notes, input)
			st.Answers[string(StepFinal)] = input
		}
		st.Step = StepReady
		return st, m.prompt(StepReady), false
	}

	optionID := resolveOption(st.Step, input)
	st.Answers[string(st.Step)] = input
	m.deriveContext(&st, st.Step, optionID)
	st.Step = nextStep(st.Step)
	return st, m.prompt(st.Step), false
}

// BuildFilter turns the accumulated context into store query predicates.
func BuildFilter(ctx rank.Context, limit int) models.Filter {
	return models.Filter{
		FuelType: ctx.FuelType,
		PriceMin: ctx.BudgetMin,
		PriceMax: ctx.BudgetMax,
		YearMin:  ctx.YearMin,
		Limit:    limit,
	}
}

func (m *Machine) prompt(step Step) Reply {
	p := prompts[step]
	return Reply{Message: p.message, Options: p.options, Step: step, ShowSearch: p.showSearch}
}

// resolveOption maps free text or a selected option onto the step's stable
// option ID. Unrecognized answers resolve to "" and contribute no context.
func resolveOption(step Step, input string) string {
	for _, opt := range prompts[step].options {
		if strings.EqualFold(input, opt.ID) || strings.EqualFold(input, opt.Label) {
			return opt.ID
		}
	}
	return ""
}

func nextStep(step Step) Step {
	for i, s := range stepOrder {
		if s == step && i+1 < len(stepOrder) {
			return stepOrder[i+1]
		}
	}
	return StepFinal
}

func (m *Machine) deriveContext(st *State, step Step, optionID string) {
	if optionID == "" {
		return
	}
	ctx := &st.Context
	switch step {
	case StepUsage:
		switch optionID {
		case "city":
			ctx.Usage = rank.UsageCity
			ctx.Priorities = append(ctx.Priorities, "low_mileage", "easy_parking")
		case "family":
			ctx.Usage = rank.UsageFamily
			ctx.Priorities = append(ctx.Priorities, "comfort", "newer_year")
		case "highway":
			ctx.Usage = rank.UsageHighway
			ctx.Priorities = append(ctx.Priorities, "engine_power")
		case "mixed":
			ctx.Usage = rank.UsageMixed
		}
	case StepBudget:
		switch optionID {
		case "under_20k":
			ctx.BudgetMax = models.FloatPtr(20000)
		case "20_40k":
			ctx.BudgetMin = models.FloatPtr(20000)
			ctx.BudgetMax = models.FloatPtr(40000)
		case "40_70k":
			ctx.BudgetMin = models.FloatPtr(40000)
			ctx.BudgetMax = models.FloatPtr(70000)
		case "over_70k":
			ctx.BudgetMin = models.FloatPtr(70000)
		}
	case StepSize:
		switch optionID {
		case "small":
			ctx.Priorities = append(ctx.Priorities, "small_size")
		case "compact":
			ctx.Priorities = append(ctx.Priorities, "compact_size")
		case "suv":
			ctx.Priorities = append(ctx.Priorities, "high_seating")
		}
	case StepFuel:
		switch optionID {
		case "petrol":
			ctx.FuelType = "Benzyna"
		case "diesel":
			ctx.FuelType = "Diesel"
		case "hybrid":
			ctx.FuelType = "Hybryda"
		}
	case StepAge:
		switch optionID {
		case "under_5":
			ctx.YearMin = models.IntPtr(m.CurrentYear - 5)
		case "under_10":
			ctx.YearMin = models.IntPtr(m.CurrentYear - 10)
		}
	}
}
