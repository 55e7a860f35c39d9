package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/p-n-ai/pai-tube/internal/app"
	"github.com/p-n-ai/pai-tube/internal/backend"
	"github.com/p-n-ai/pai-tube/internal/model"
	"github.com/p-n-ai/pai-tube/internal/view"
)

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func testGateway() *backend.MockGateway {
	return &backend.MockGateway{
		Analysis: model.AnalysisResult{
			Topics:   []string{"geography"},
			Summary:  "About capitals.",
			Audience: "Students",
		},
		Quiz: model.QuizSet{Questions: []model.QuizQuestion{{
			Prompt:     "Capital of France?",
			Options:    []model.Option{{Key: "A", Text: "Paris"}, {Key: "B", Text: "London"}},
			CorrectKey: "A",
		}}},
	}
}

func newTestModel(t *testing.T) (Model, *app.Controller) {
	t.Helper()
	ctrl := app.New(testGateway())
	return NewModel(context.Background(), ctrl, nil, true), ctrl
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

// runCmd executes an async action command and feeds its result back.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(actionDoneMsg); !ok {
		t.Fatalf("cmd returned %T, want actionDoneMsg", msg)
	}
	m, _ = send(t, m, msg)
	return m
}

func typeURL(t *testing.T, m Model, url string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(url)})
	return m
}

func TestTyping_Validates(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = typeURL(t, m, "not a url")
	if ctrl.Validation().Valid() {
		t.Fatal("invalid input reported valid")
	}
	if !strings.Contains(m.View(), "Please enter a valid YouTube URL") {
		t.Errorf("view missing validation message:\n%s", m.View())
	}
	if _, cmd := press(t, m, tea.KeyEnter); cmd != nil {
		t.Error("enter on invalid input should not start analysis")
	}
}

func TestEnterInInput_Analyzes(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = typeURL(t, m, testURL)
	if !ctrl.Validation().Valid() {
		t.Fatalf("Validation = %+v, want valid", ctrl.Validation())
	}

	m, cmd := press(t, m, tea.KeyEnter)
	m = runCmd(t, m, cmd)

	out := m.View()
	for _, want := range []string{"Analysis complete!", "#geography", "About capitals.", "Video ID: dQw4w9WgXcQ"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestQuizFlow_ToggleAndSelect(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeURL(t, m, testURL)

	m, _ = press(t, m, tea.KeyTab) // analyze
	m, _ = press(t, m, tea.KeyTab) // quiz
	if m.focused != app.IDQuizButton {
		t.Fatalf("focused = %q, want %q", m.focused, app.IDQuizButton)
	}
	m, cmd := press(t, m, tea.KeyEnter)
	m = runCmd(t, m, cmd)
	if !strings.Contains(m.View(), "Quiz generated!") {
		t.Fatalf("view missing quiz status:\n%s", m.View())
	}
	if strings.Contains(m.View(), "A) Paris") {
		t.Error("options should stay hidden while the card is collapsed")
	}

	m, _ = press(t, m, tea.KeyTab) // card title
	m, _ = press(t, m, tea.KeyEnter)
	if !strings.Contains(m.View(), "▾ 1. Capital of France?") {
		t.Fatalf("card not expanded:\n%s", m.View())
	}

	m, _ = press(t, m, tea.KeyTab) // option A
	m, _ = press(t, m, tea.KeySpace)
	out := m.View()
	if !strings.Contains(out, "A) Paris ✓") {
		t.Errorf("correct option not marked:\n%s", out)
	}
	if !strings.Contains(out, "Score: 1/1") {
		t.Errorf("score missing:\n%s", out)
	}
}

func TestWrongAnswer_RevealsCorrect(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = typeURL(t, m, testURL)
	if err := ctrl.GenerateQuiz(context.Background()); err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if err := ctrl.Toggle(0); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	m, _ = send(t, m, changeMsg{})

	m.focused = "q0-B"
	m, _ = press(t, m, tea.KeyEnter)

	out := m.View()
	if !strings.Contains(out, "B) London ✗") || !strings.Contains(out, "A) Paris ✓") {
		t.Errorf("decorations wrong:\n%s", out)
	}
}

func TestDisabledButton_Ignored(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, tea.KeyTab)
	if m.focused != app.IDAnalyzeButton {
		t.Fatalf("focused = %q", m.focused)
	}
	if _, cmd := press(t, m, tea.KeyEnter); cmd != nil {
		t.Error("disabled analyze button should not dispatch")
	}
}

func TestRestore_PrefillsInput(t *testing.T) {
	ctrl := app.New(testGateway())
	ctrl.SetInput(testURL)
	m := NewModel(context.Background(), ctrl, nil, true)
	if m.input.Value() != testURL {
		t.Errorf("input = %q, want %q", m.input.Value(), testURL)
	}
}

func TestEscQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestNotifier_Coalesces(t *testing.T) {
	notify, ch := Notifier()
	notify()
	notify()

	msg := waitForChange(ch)()
	if _, ok := msg.(changeMsg); !ok {
		t.Fatalf("msg = %T, want changeMsg", msg)
	}
	select {
	case <-ch:
		t.Error("second signal should have been coalesced")
	default:
	}
}

func TestTargets_SkipHiddenAndCollapsed(t *testing.T) {
	root := view.Node{Kind: view.KindPage, Children: []view.Node{
		{Kind: view.KindButton, ID: "a", Action: &view.Action{Kind: view.ActionAnalyze}},
		{Kind: view.KindButton, ID: "hidden", Hidden: true, Action: &view.Action{Kind: view.ActionQuiz}},
		{Kind: view.KindCard, Children: []view.Node{
			{Kind: view.KindCardTitle, Action: &view.Action{Kind: view.ActionToggle}},
			{Kind: view.KindOptions, Children: []view.Node{
				{Kind: view.KindOption, Action: &view.Action{Kind: view.ActionSelect, Key: "A"}},
			}},
		}},
	}}

	got := targets(root)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Key != "a" || got[1].Key != "toggle:0:" {
		t.Errorf("keys = %s,%s", got[0].Key, got[1].Key)
	}

	root.Children[2].Expanded = true
	if got := targets(root); len(got) != 3 {
		t.Errorf("expanded len = %d, want 3", len(got))
	}
}

func TestMoveFocus(t *testing.T) {
	tests := []struct {
		cur, delta, n, want int
	}{
		{0, 1, 3, 1},
		{2, 1, 3, 0},
		{0, -1, 3, 2},
		{1, -1, 3, 0},
		{0, 1, 0, 0},
	}
	for _, tt := range tests {
		if got := moveFocus(tt.cur, tt.delta, tt.n); got != tt.want {
			t.Errorf("moveFocus(%d,%d,%d) = %d, want %d", tt.cur, tt.delta, tt.n, got, tt.want)
		}
	}
}

func TestStylize_NoColor(t *testing.T) {
	if got := stylize("plain", true, colorError); got != "plain" {
		t.Errorf("stylize = %q", got)
	}
}
