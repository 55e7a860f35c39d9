package tui

import (
	"fmt"

	"github.com/p-n-ai/pai-tube/internal/view"
)

// target is one focusable element of the rendered tree.
type target struct {
	Key      string
	Action   view.Action
	Disabled bool
}

// targetKey identifies a node across re-renders.
func targetKey(n view.Node) string {
	if n.ID != "" {
		return n.ID
	}
	return fmt.Sprintf("%s:%d:%s", n.Action.Kind, n.Action.Question, n.Action.Key)
}

// targets lists actionable nodes in document order. Hidden subtrees and
// the options of collapsed cards are skipped.
func targets(root view.Node) []target {
	var out []target
	var walk func(n view.Node, expanded bool)
	walk = func(n view.Node, expanded bool) {
		if n.Hidden {
			return
		}
		if n.Kind == view.KindOptions && !expanded {
			return
		}
		if n.Action != nil {
			out = append(out, target{Key: targetKey(n), Action: *n.Action, Disabled: n.Disabled})
		}
		if n.Kind == view.KindCard {
			expanded = n.Expanded
		}
		for _, c := range n.Children {
			walk(c, expanded)
		}
	}
	walk(root, false)
	return out
}

// moveFocus steps delta places through n targets, wrapping around.
func moveFocus(cur, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cur+delta)%n + n) % n
}

// indexOf returns the position of key in ts, or -1.
func indexOf(ts []target, key string) int {
	for i, t := range ts {
		if t.Key == key {
			return i
		}
	}
	return -1
}
