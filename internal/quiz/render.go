package quiz

import (
	"fmt"

	"github.com/p-n-ai/pai-tube/internal/view"
)

// Render builds the quiz view: one card per question with a toggle header
// and one option node per answer. Options carry their (question, key)
// identity in their action.
func (e *Engine) Render() view.Node {
	list := view.Node{Kind: view.KindQuizList, ID: "quiz-list"}
	if len(e.set.Questions) == 0 {
		list.Children = []view.Node{{
			Kind:  view.KindText,
			Text:  EmptyText,
			Props: map[string]string{"class": "text-muted"},
		}}
		return list
	}

	for i, q := range e.set.Questions {
		st := e.states[i]
		options := view.Node{Kind: view.KindOptions, ID: fmt.Sprintf("q%d-options", i)}
		for j, opt := range q.Options {
			options.Children = append(options.Children, view.Node{
				Kind:       view.KindOption,
				ID:         fmt.Sprintf("q%d-%s", i, opt.Key),
				Text:       opt.Label(),
				Decoration: st.decorations[j],
				Action:     &view.Action{Kind: view.ActionSelect, Question: i, Key: opt.Key},
			})
		}

		list.Children = append(list.Children, view.Node{
			Kind:     view.KindCard,
			ID:       fmt.Sprintf("q%d", i),
			Expanded: st.Expanded,
			Children: []view.Node{
				{
					Kind:   view.KindCardTitle,
					Text:   fmt.Sprintf("%d. %s", i+1, q.Prompt),
					Action: &view.Action{Kind: view.ActionToggle, Question: i},
				},
				options,
			},
		})
	}
	return list
}
