// Package quiz renders quiz questions as collapsible cards and tracks the
// answer-reveal state of each card.
package quiz

import (
	"fmt"
	"strings"

	"github.com/p-n-ai/pai-tube/internal/model"
	"github.com/p-n-ai/pai-tube/internal/view"
)

// EmptyText is rendered when a quiz has no questions.
const EmptyText = "No questions generated."

// State is the transient interaction state of one rendered question.
type State struct {
	SelectedKey string
	Selected    bool
	Revealed    bool
	Expanded    bool

	// decorations is indexed by option position.
	decorations []view.Decoration
	// firstCorrect records whether the first selection was right.
	firstCorrect bool
}

// Engine holds one quiz and the interaction state of each of its questions.
// An Engine is not safe for concurrent use; the owner serializes access.
type Engine struct {
	set    model.QuizSet
	states []State
}

// New creates an engine with fresh state for every question.
func New(set model.QuizSet) *Engine {
	states := make([]State, len(set.Questions))
	for i, q := range set.Questions {
		states[i].decorations = make([]view.Decoration, len(q.Options))
	}
	return &Engine{set: set, states: states}
}

// Set returns the quiz the engine was built from.
func (e *Engine) Set() model.QuizSet {
	return e.set
}

// Len returns the number of questions.
func (e *Engine) Len() int {
	return len(e.set.Questions)
}

// IsCorrect reports whether the option (key, text) is the answer described by
// correctKey. correctKey may be the key itself, a key-prefixed string such
// as "A) Paris", or the verbatim option text.
func IsCorrect(correctKey, key, text string) bool {
	if correctKey == "" {
		return false
	}
	return correctKey == key || strings.HasPrefix(correctKey, key) || correctKey == text
}

// Toggle flips the expanded flag of question q. Answer state is untouched.
func (e *Engine) Toggle(q int) error {
	if err := e.check(q); err != nil {
		return err
	}
	e.states[q].Expanded = !e.states[q].Expanded
	return nil
}

// Select applies the answer-selection protocol to question q for the option
// with the given key. Decorations of other questions are never touched.
// Clicking a wrong option marks it selected and marks every option that
// satisfies IsCorrect as correct, so both are visible at once.
func (e *Engine) Select(q int, key string) error {
	if err := e.check(q); err != nil {
		return err
	}
	question := e.set.Questions[q]
	idx := -1
	for i, opt := range question.Options {
		if opt.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("question %d has no option %q", q, key)
	}

	st := &e.states[q]
	for i := range st.decorations {
		st.decorations[i] = view.DecorationNone
	}

	clicked := question.Options[idx]
	correct := IsCorrect(question.CorrectKey, clicked.Key, clicked.Text)
	if correct {
		st.decorations[idx] = view.DecorationCorrect
	} else {
		st.decorations[idx] = view.DecorationSelected
		for i, opt := range question.Options {
			if IsCorrect(question.CorrectKey, opt.Key, opt.Text) {
				st.decorations[i] = view.DecorationCorrect
			}
		}
	}

	if !st.Revealed {
		st.firstCorrect = correct
	}
	st.SelectedKey = key
	st.Selected = true
	st.Revealed = true
	return nil
}

// Decoration returns the current decoration of option key in question q.
func (e *Engine) Decoration(q int, key string) view.Decoration {
	if e.check(q) != nil {
		return view.DecorationNone
	}
	for i, opt := range e.set.Questions[q].Options {
		if opt.Key == key {
			return e.states[q].decorations[i]
		}
	}
	return view.DecorationNone
}

// State returns a copy of the interaction state of question q.
func (e *Engine) State(q int) (State, bool) {
	if e.check(q) != nil {
		return State{}, false
	}
	st := e.states[q]
	st.decorations = append([]view.Decoration(nil), st.decorations...)
	return st, true
}

// Score counts revealed questions and those whose first answer was right.
func (e *Engine) Score() (answered, correct int) {
	for _, st := range e.states {
		if !st.Revealed {
			continue
		}
		answered++
		if st.firstCorrect {
			correct++
		}
	}
	return answered, correct
}

func (e *Engine) check(q int) error {
	if q < 0 || q >= len(e.states) {
		return fmt.Errorf("question index %d out of range [0,%d)", q, len(e.states))
	}
	return nil
}
