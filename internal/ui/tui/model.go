// Package tui is the terminal adapter: a Bubble Tea program that renders
// the controller's view tree and maps keys onto view actions.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/p-n-ai/pai-tube/internal/app"
	"github.com/p-n-ai/pai-tube/internal/view"
)

type changeMsg struct{}

type actionDoneMsg struct {
	action view.ActionKind
	err    error
}

// Model is the Bubble Tea model for the terminal UI.
type Model struct {
	ctx     context.Context
	ctrl    *app.Controller
	changes <-chan struct{}
	noColor bool

	input   textinput.Model
	tree    view.Node
	targets []target
	focused string
	lastErr string
	width   int
}

// Notifier returns an onChange callback and the channel it feeds. The
// channel holds at most one pending signal.
func Notifier() (func(), <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

// NewModel wraps ctrl. changes should be fed by the controller's onChange
// callback, see Notifier.
func NewModel(ctx context.Context, ctrl *app.Controller, changes <-chan struct{}, noColor bool) Model {
	in := textinput.New()
	in.Prompt = "URL › "
	in.CharLimit = 2048
	in.Width = 60

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		changes: changes,
		noColor: noColor,
		input:   in,
		focused: app.IDURLInput,
	}
	m.refresh()
	m.input.SetValue(m.inputText())
	m.input.Focus()
	return m
}

// Init starts listening for controller changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.changes))
}

// Update handles messages and key input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 20 {
			m.input.Width = msg.Width - 10
		}
		return m, nil

	case changeMsg:
		m.refresh()
		return m, waitForChange(m.changes)

	case actionDoneMsg:
		m.lastErr = ""
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focused == app.IDURLInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		m.step(1)
		return m, nil
	case "shift+tab", "up":
		m.step(-1)
		return m, nil
	case "enter":
		return m.activate()
	case " ", "space":
		if m.focused != app.IDURLInput {
			return m.activate()
		}
	}

	if m.focused != app.IDURLInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	m.refresh()
	return m, cmd
}

func (m *Model) step(delta int) {
	i := indexOf(m.targets, m.focused)
	if i < 0 {
		i = 0
	}
	if len(m.targets) == 0 {
		return
	}
	m.focused = m.targets[moveFocus(i, delta, len(m.targets))].Key
	m.syncInputFocus()
}

// activate runs the focused action. Backend calls run off the update loop.
func (m Model) activate() (tea.Model, tea.Cmd) {
	i := indexOf(m.targets, m.focused)
	if i < 0 {
		return m, nil
	}
	t := m.targets[i]
	if t.Disabled {
		return m, nil
	}

	switch t.Action.Kind {
	case view.ActionInput:
		// Enter in the URL field starts analysis.
		if !m.ctrl.Validation().Valid() {
			return m, nil
		}
		return m, m.dispatchCmd(view.Action{Kind: view.ActionAnalyze})
	case view.ActionAnalyze, view.ActionQuiz:
		return m, m.dispatchCmd(t.Action)
	}

	_, err := m.ctrl.Dispatch(m.ctx, t.Action)
	m.lastErr = ""
	if err != nil {
		m.lastErr = err.Error()
	}
	m.refresh()
	return m, nil
}

func (m Model) dispatchCmd(a view.Action) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		_, err := ctrl.Dispatch(ctx, a)
		return actionDoneMsg{action: a.Kind, err: err}
	}
}

// refresh re-renders the tree and keeps focus on the same target when it
// still exists.
func (m *Model) refresh() {
	m.tree = m.ctrl.Render()
	m.targets = targets(m.tree)
	if indexOf(m.targets, m.focused) < 0 {
		m.focused = app.IDURLInput
	}
	if m.inputLocked() {
		m.input.SetValue(m.inputText())
	}
	m.syncInputFocus()
}

func (m *Model) syncInputFocus() {
	if m.focused == app.IDURLInput && !m.inputLocked() {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m Model) inputNode() view.Node {
	n, _ := view.Find(m.tree, view.ByID(app.IDURLInput))
	return n
}

func (m Model) inputText() string {
	return m.inputNode().Text
}

func (m Model) inputLocked() bool {
	return m.inputNode().Disabled
}

// View renders the current tree.
func (m Model) View() string {
	parts := []string{renderTree(m.tree, m.focused, m.input.View(), m.noColor)}
	if m.lastErr != "" {
		parts = append(parts, "", stylize(m.lastErr, m.noColor, colorError))
	}
	parts = append(parts, "", stylize(helpLine, m.noColor, colorMuted))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

const helpLine = "tab/↑↓ move • enter activate • space select • esc quit"

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changeMsg{}
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, ctrl *app.Controller, changes <-chan struct{}, noColor bool, opts ...tea.ProgramOption) error {
	opts = append(opts, tea.WithContext(ctx))
	p := tea.NewProgram(NewModel(ctx, ctrl, changes, noColor), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
