package app

import (
	"context"
	"fmt"

	"github.com/p-n-ai/pai-tube/internal/export"
	"github.com/p-n-ai/pai-tube/internal/view"
)

// Outcome is what an adapter must do after dispatching an action besides
// re-rendering.
type Outcome struct {
	// Copied is the text placed on the clipboard, if any.
	Copied string
	// Download is the exported file, if the action produced one.
	Download *export.File
}

// Dispatch routes a view action to the matching controller operation.
// Analyze and quiz actions block until the backend answers; adapters run
// them on their own goroutine.
func (c *Controller) Dispatch(ctx context.Context, a view.Action) (Outcome, error) {
	switch a.Kind {
	case view.ActionInput:
		c.SetInput(a.Value)
		return Outcome{}, nil
	case view.ActionAnalyze:
		return Outcome{}, c.Analyze(ctx)
	case view.ActionQuiz:
		return Outcome{}, c.GenerateQuiz(ctx)
	case view.ActionToggle:
		return Outcome{}, c.Toggle(a.Question)
	case view.ActionSelect:
		return Outcome{}, c.Select(a.Question, a.Key)
	case view.ActionCopySummary:
		ok, err := c.CopySummary()
		if !ok || err != nil {
			return Outcome{}, err
		}
		analysis, _ := c.Analysis()
		return Outcome{Copied: export.AnalysisText(analysis)}, nil
	case view.ActionCopyQuiz:
		ok, err := c.CopyQuiz()
		if !ok || err != nil {
			return Outcome{}, err
		}
		set, _ := c.Quiz()
		text, err := export.QuizText(set)
		return Outcome{Copied: text}, err
	case view.ActionDownloadAnalysis:
		res, ok, err := c.DownloadAnalysis(ctx)
		if !ok || err != nil {
			return Outcome{}, err
		}
		return Outcome{Download: &res.File}, nil
	case view.ActionDownloadQuiz:
		res, ok, err := c.DownloadQuiz(ctx)
		if !ok || err != nil {
			return Outcome{}, err
		}
		return Outcome{Download: &res.File}, nil
	}
	return Outcome{}, fmt.Errorf("unknown action %q", a.Kind)
}
