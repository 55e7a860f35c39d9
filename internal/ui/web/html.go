package web

import (
	"html"
	"strconv"
	"strings"

	"github.com/p-n-ai/pai-tube/internal/view"
)

// RenderHTML renders a view tree to an HTML fragment. Interactive elements
// carry data-action attributes the page script turns into socket messages.
func RenderHTML(n view.Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n view.Node) {
	switch n.Kind {
	case view.KindPage:
		open(b, "main", n, "page")
		writeChildren(b, n)
		b.WriteString("</main>")
	case view.KindSection:
		open(b, "section", n, "section")
		writeChildren(b, n)
		b.WriteString("</section>")
	case view.KindHeading:
		open(b, "h2", n, "")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</h2>")
	case view.KindText:
		open(b, "p", n, "text")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</p>")
	case view.KindInput:
		open(b, "input", n, "url-input", "type", "url", "value", n.Text, "placeholder", n.Prop("placeholder"))
	case view.KindButton:
		open(b, "button", n, "btn")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</button>")
	case view.KindStatus:
		open(b, "div", n, "status-message")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</div>")
	case view.KindEmbed:
		open(b, "iframe", n, "video-frame",
			"src", n.Prop("src"), "title", n.Prop("title"), "allow", n.Prop("allow"), "allowfullscreen", "")
		b.WriteString("</iframe>")
	case view.KindChipList:
		open(b, "div", n, "chips")
		writeChildren(b, n)
		b.WriteString("</div>")
	case view.KindChip:
		open(b, "span", n, "chip")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</span>")
	case view.KindQuizList:
		open(b, "div", n, "quiz-list")
		writeChildren(b, n)
		b.WriteString("</div>")
	case view.KindCard:
		open(b, "div", n, "quiz-item-card")
		writeChildren(b, n)
		b.WriteString("</div>")
	case view.KindCardTitle:
		open(b, "button", n, "quiz-question-header")
		b.WriteString("<span>")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString(`</span><span class="chevron">&#9660;</span></button>`)
	case view.KindOptions:
		open(b, "div", n, "quiz-options")
		writeChildren(b, n)
		b.WriteString("</div>")
	case view.KindOption:
		open(b, "button", n, "option-btn")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</button>")
	default:
		open(b, "div", n, string(n.Kind))
		writeChildren(b, n)
		b.WriteString("</div>")
	}
}

func writeChildren(b *strings.Builder, n view.Node) {
	for _, c := range n.Children {
		writeNode(b, c)
	}
}

// open writes a start tag with the node's common attributes followed by
// extra name/value pairs.
func open(b *strings.Builder, tag string, n view.Node, baseClass string, attrs ...string) {
	b.WriteString("<")
	b.WriteString(tag)
	if n.ID != "" {
		attr(b, "id", n.ID)
	}
	if class := classes(n, baseClass); class != "" {
		attr(b, "class", class)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		name, value := attrs[i], attrs[i+1]
		if value == "" && name != "value" && name != "allowfullscreen" {
			continue
		}
		attr(b, name, value)
	}
	if a := n.Action; a != nil {
		attr(b, "data-action", string(a.Kind))
		if a.Kind == view.ActionToggle || a.Kind == view.ActionSelect {
			attr(b, "data-question", strconv.Itoa(a.Question))
		}
		if a.Key != "" {
			attr(b, "data-key", a.Key)
		}
	}
	if n.Disabled {
		b.WriteString(" disabled")
	}
	b.WriteString(">")
}

func classes(n view.Node, base string) string {
	parts := make([]string, 0, 4)
	if base != "" {
		parts = append(parts, base)
	}
	if c := n.Prop("class"); c != "" {
		parts = append(parts, c)
	}
	if n.Tone != "" && n.Kind == view.KindStatus {
		parts = append(parts, string(n.Tone))
	} else if n.Tone == view.ToneError {
		parts = append(parts, "error-text")
	}
	if n.Decoration != view.DecorationNone {
		parts = append(parts, string(n.Decoration))
	}
	if n.Expanded {
		parts = append(parts, "expanded")
	}
	if n.Loading {
		parts = append(parts, "loading")
	}
	if n.Hidden {
		parts = append(parts, "hidden")
	}
	return strings.Join(parts, " ")
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}
