// Package view describes UI as a tree of typed nodes. Renderers produce a
// tree; adapters bind it to a concrete toolkit (HTML, terminal).
package view

// Kind is the type of a node.
type Kind string

const (
	KindPage      Kind = "page"
	KindSection   Kind = "section"
	KindHeading   Kind = "heading"
	KindText      Kind = "text"
	KindInput     Kind = "input"
	KindButton    Kind = "button"
	KindStatus    Kind = "status"
	KindEmbed     Kind = "embed"
	KindChipList  Kind = "chip_list"
	KindChip      Kind = "chip"
	KindQuizList  Kind = "quiz_list"
	KindCard      Kind = "card"
	KindCardTitle Kind = "card_title"
	KindOptions   Kind = "options"
	KindOption    Kind = "option"
)

// Decoration marks an option after an answer was revealed.
type Decoration string

const (
	DecorationNone     Decoration = ""
	DecorationSelected Decoration = "selected"
	DecorationCorrect  Decoration = "correct"
)

// Tone styles status messages.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// ActionKind names a user intent an adapter can dispatch.
type ActionKind string

const (
	ActionInput            ActionKind = "input"
	ActionAnalyze          ActionKind = "analyze"
	ActionQuiz             ActionKind = "quiz"
	ActionToggle           ActionKind = "toggle"
	ActionSelect           ActionKind = "select"
	ActionCopySummary      ActionKind = "copy_summary"
	ActionCopyQuiz         ActionKind = "copy_quiz"
	ActionDownloadAnalysis ActionKind = "download_analysis"
	ActionDownloadQuiz     ActionKind = "download_quiz"
)

// Action identifies what activating a node does. Quiz actions carry the
// question index and option key so one handler serves every option.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Question int        `json:"question,omitempty"`
	Key      string     `json:"key,omitempty"`
	Value    string     `json:"value,omitempty"`
}

// Node is one element of a view tree.
type Node struct {
	Kind       Kind              `json:"kind"`
	ID         string            `json:"id,omitempty"`
	Text       string            `json:"text,omitempty"`
	Props      map[string]string `json:"props,omitempty"`
	Tone       Tone              `json:"tone,omitempty"`
	Disabled   bool              `json:"disabled,omitempty"`
	Hidden     bool              `json:"hidden,omitempty"`
	Loading    bool              `json:"loading,omitempty"`
	Expanded   bool              `json:"expanded,omitempty"`
	Decoration Decoration        `json:"decoration,omitempty"`
	Action     *Action           `json:"action,omitempty"`
	Children   []Node            `json:"children,omitempty"`
}

// Prop returns a property value or "".
func (n Node) Prop(key string) string {
	return n.Props[key]
}

// Walk visits n and its descendants depth-first, stopping early when fn
// returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node satisfying pred.
func Find(root Node, pred func(Node) bool) (Node, bool) {
	var found Node
	var ok bool
	Walk(root, func(n Node) bool {
		if pred(n) {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// FindAll returns every node satisfying pred, in document order.
func FindAll(root Node, pred func(Node) bool) []Node {
	var out []Node
	Walk(root, func(n Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ByID matches nodes with the given ID.
func ByID(id string) func(Node) bool {
	return func(n Node) bool { return n.ID == id }
}

// ByKind matches nodes of the given kind.
func ByKind(kind Kind) func(Node) bool {
	return func(n Node) bool { return n.Kind == kind }
}
