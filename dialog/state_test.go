package dialog

import (
	"strings"
	"testing"
)

func TestAddHabitFlow(t *testing.T) {
	state := State{Stage: StageAwaitingName}

	state, effect := Advance(state, "Morning run")
	if state.Stage != StageAwaitingCategory {
		t.Fatalf("expected awaiting_category, got %s", state.Stage)
	}
	if effect.Kind != EffectPromptCategory || effect.Name != "Morning run" {
		t.Fatalf("unexpected effect: %+v", effect)
	}

	state, effect = Advance(state, "Health")
	if state.Stage != StageAwaitingFrequency {
		t.Fatalf("expected awaiting_frequency, got %s", state.Stage)
	}
	if effect.Kind != EffectPromptFrequency || effect.Category != "Health" {
		t.Fatalf("unexpected effect: %+v", effect)
	}
	if state.Name != "Morning run" {
		t.Fatalf("candidate name lost: %+v", state)
	}

	state, effect = Advance(state, "Daily")
	if effect.Kind != EffectCreateHabit {
		t.Fatalf("expected create effect, got %+v", effect)
	}
	if effect.Name != "Morning run" || effect.Category != "Health" || effect.Frequency != "Daily" {
		t.Fatalf("accumulated fields wrong: %+v", effect)
	}

	// Back to idle with every transient field cleared
	if state.Stage != StageIdle || state.Name != "" || state.Category != "" || state.HabitIDs != nil {
		t.Fatalf("state not cleared: %+v", state)
	}
}

func TestInvalidNameRePrompts(t *testing.T) {
	start := State{Stage: StageAwaitingName}

	for _, input := range []string{"", "   ", strings.Repeat("x", 201)} {
		state, effect := Advance(start, input)
		if effect.Kind != EffectInvalidName {
			t.Errorf("input %q: expected invalid name effect, got %+v", input, effect)
		}
		if state.Stage != StageAwaitingName {
			t.Errorf("input %q: state advanced to %s", input, state.Stage)
		}
	}
}

func TestInvalidCategoryRePrompts(t *testing.T) {
	start := State{Stage: StageAwaitingCategory, Name: "Reading"}

	state, effect := Advance(start, strings.Repeat("y", 51))
	if effect.Kind != EffectInvalidCategory {
		t.Fatalf("expected invalid category effect, got %+v", effect)
	}
	if state.Stage != StageAwaitingCategory || state.Name != "Reading" {
		t.Fatalf("state changed on invalid input: %+v", state)
	}
}

func TestCategoryStripsDecorativeSymbols(t *testing.T) {
	state := State{Stage: StageAwaitingCategory, Name: "Reading"}

	next, effect := Advance(state, "\U0001F4AA Health ")
	if effect.Kind != EffectPromptFrequency {
		t.Fatalf("unexpected effect: %+v", effect)
	}
	if next.Category != "Health" {
		t.Fatalf("expected cleaned category %q, got %q", "Health", next.Category)
	}
}

func TestFreeTextCategoryAccepted(t *testing.T) {
	state := State{Stage: StageAwaitingCategory, Name: "Reading"}

	next, _ := Advance(state, "something else entirely")
	if next.Category != "something else entirely" {
		t.Fatalf("free text category rejected: %+v", next)
	}
}

func TestCompletionChoice(t *testing.T) {
	state := State{Stage: StageAwaitingCompletion, HabitIDs: []string{"a", "b", "c"}}

	next, effect := Advance(state, "2")
	if effect.Kind != EffectCompleteHabit || effect.HabitID != "b" {
		t.Fatalf("unexpected effect: %+v", effect)
	}
	if next.Stage != StageIdle {
		t.Fatalf("expected idle after choice, got %s", next.Stage)
	}

	for _, input := range []string{"0", "4", "abc", ""} {
		next, effect = Advance(state, input)
		if effect.Kind != EffectInvalidChoice {
			t.Errorf("input %q: expected invalid choice, got %+v", input, effect)
		}
		if next.Stage != StageAwaitingCompletion {
			t.Errorf("input %q: state advanced to %s", input, next.Stage)
		}
	}
}

func TestIdleIgnoresText(t *testing.T) {
	state, effect := Advance(State{}, "hello")
	if effect.Kind != EffectNone || state.Stage != StageIdle {
		t.Fatalf("idle state reacted to text: %+v %+v", state, effect)
	}
}
