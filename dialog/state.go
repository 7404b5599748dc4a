package dialog

import (
	"strconv"
	"strings"
	"unicode"
)

const (
	maxNameLength     = 200
	maxCategoryLength = 50
)

type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingName
	StageAwaitingCategory
	StageAwaitingFrequency
	StageAwaitingCompletion
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingName:
		return "awaiting_name"
	case StageAwaitingCategory:
		return "awaiting_category"
	case StageAwaitingFrequency:
		return "awaiting_frequency"
	case StageAwaitingCompletion:
		return "awaiting_completion"
	default:
		return "unknown"
	}
}

// State is the transient per-session dialog state. The zero value is an
// idle session with no candidate fields. State is never persisted; a
// process restart discards every in-flight dialog.
type State struct {
	Stage    Stage
	Name     string
	Category string

	// Habit IDs offered by the completion prompt, in list order.
	HabitIDs []string
}

type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectPromptCategory
	EffectPromptFrequency
	EffectCreateHabit
	EffectCompleteHabit
	EffectInvalidName
	EffectInvalidCategory
	EffectInvalidChoice
)

// Effect describes what the caller must do after a transition: show the
// next prompt, invoke a domain operation, or re-prompt on bad input.
type Effect struct {
	Kind EffectKind

	Name      string
	Category  string
	Frequency string
	HabitID   string
}

// Advance is the pure transition function from (state, input) to
// (new state, effect). Invalid input re-prompts by returning the state
// unchanged. Completing a dialog returns the zero (idle) state with all
// candidate fields cleared.
func Advance(state State, input string) (State, Effect) {
	switch state.Stage {
	case StageAwaitingName:
		name := strings.TrimSpace(input)
		if name == "" || len(name) > maxNameLength {
			return state, Effect{Kind: EffectInvalidName}
		}
		next := State{Stage: StageAwaitingCategory, Name: name}
		return next, Effect{Kind: EffectPromptCategory, Name: name}

	case StageAwaitingCategory:
		category := cleanCategory(input)
		if category == "" || len(category) > maxCategoryLength {
			return state, Effect{Kind: EffectInvalidCategory}
		}
		next := State{Stage: StageAwaitingFrequency, Name: state.Name, Category: category}
		return next, Effect{Kind: EffectPromptFrequency, Category: category}

	case StageAwaitingFrequency:
		frequency := strings.TrimSpace(input)
		effect := Effect{
			Kind:      EffectCreateHabit,
			Name:      state.Name,
			Category:  state.Category,
			Frequency: frequency,
		}
		return State{}, effect

	case StageAwaitingCompletion:
		choice, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil || choice < 1 || choice > len(state.HabitIDs) {
			return state, Effect{Kind: EffectInvalidChoice}
		}
		return State{}, Effect{Kind: EffectCompleteHabit, HabitID: state.HabitIDs[choice-1]}

	default:
		return state, Effect{Kind: EffectNone}
	}
}

// cleanCategory strips the decorative symbols quick-reply labels carry
// before the text is stored.
func cleanCategory(input string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(stripped)
}
