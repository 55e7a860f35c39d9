package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/p-n-ai/pai-tube/internal/view"
)

var (
	colorHeading  = lipgloss.Color("63")
	colorMuted    = lipgloss.Color("242")
	colorSuccess  = lipgloss.Color("42")
	colorError    = lipgloss.Color("196")
	colorInfo     = lipgloss.Color("33")
	colorFocus    = lipgloss.Color("212")
	colorSelected = lipgloss.Color("203")
)

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func toneColor(t view.Tone) lipgloss.Color {
	switch t {
	case view.ToneSuccess:
		return colorSuccess
	case view.ToneError:
		return colorError
	}
	return colorInfo
}

// renderer turns a view tree into terminal lines.
type renderer struct {
	noColor bool
	focused string
	input   string // pre-rendered text input
	lines   []string
}

func (r *renderer) add(s string) {
	r.lines = append(r.lines, s)
}

func (r *renderer) node(n view.Node, expanded bool) {
	if n.Hidden {
		return
	}
	focused := n.Action != nil && targetKey(n) == r.focused

	switch n.Kind {
	case view.KindHeading:
		text := n.Text
		if !r.noColor {
			text = lipgloss.NewStyle().Bold(true).Foreground(colorHeading).Render(text)
		}
		r.add("")
		r.add(text)
	case view.KindInput:
		r.add(r.input)
	case view.KindText:
		if n.Text == "" {
			break
		}
		if n.Tone == view.ToneError {
			r.add(stylize(n.Text, r.noColor, colorError))
		} else {
			r.add(n.Text)
		}
	case view.KindStatus:
		r.add(stylize(n.Text, r.noColor, toneColor(n.Tone)))
	case view.KindButton:
		r.add(r.button(n, focused))
	case view.KindEmbed:
		r.add(stylize("▶ "+n.Prop("src"), r.noColor, colorInfo))
	case view.KindChipList:
		chips := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			chips = append(chips, "#"+c.Text)
		}
		if len(chips) > 0 {
			r.add(stylize(strings.Join(chips, "  "), r.noColor, colorMuted))
		}
		return
	case view.KindCard:
		expanded = n.Expanded
	case view.KindCardTitle:
		marker := "▸ "
		if expanded {
			marker = "▾ "
		}
		r.add(r.pointer(focused) + marker + n.Text)
	case view.KindOptions:
		if !expanded {
			return
		}
	case view.KindOption:
		r.add("    " + r.option(n, focused))
	}

	for _, c := range n.Children {
		r.node(c, expanded)
	}
}

func (r *renderer) pointer(focused bool) string {
	if focused {
		return stylize("› ", r.noColor, colorFocus)
	}
	return "  "
}

func (r *renderer) button(n view.Node, focused bool) string {
	label := "[ " + n.Text
	if n.Loading {
		label += " …"
	}
	label += " ]"
	switch {
	case n.Disabled:
		label = stylize(label, r.noColor, colorMuted)
	case focused:
		label = stylize(label, r.noColor, colorFocus)
	}
	return r.pointer(focused) + label
}

func (r *renderer) option(n view.Node, focused bool) string {
	label := n.Text
	switch n.Decoration {
	case view.DecorationCorrect:
		label = stylize(label+" ✓", r.noColor, colorSuccess)
	case view.DecorationSelected:
		label = stylize(label+" ✗", r.noColor, colorSelected)
	}
	return r.pointer(focused) + label
}

// renderTree renders root with the given focused target.
func renderTree(root view.Node, focused, input string, noColor bool) string {
	r := &renderer{noColor: noColor, focused: focused, input: input}
	r.node(root, false)
	return strings.Join(r.lines, "\n")
}
