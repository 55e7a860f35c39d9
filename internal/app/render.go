package app

import (
	"github.com/p-n-ai/pai-tube/internal/view"
)

// Element IDs adapters and tests can rely on.
const (
	IDURLInput       = "url-input"
	IDValidation     = "validation-msg"
	IDAnalyzeButton  = "analyze-btn"
	IDQuizButton     = "quiz-btn"
	IDStatus         = "status-message"
	IDResults        = "results-area"
	IDVideo          = "video-container"
	IDVideoTitle     = "video-title"
	IDAnalysis       = "analysis-panel"
	IDTopics         = "topics-list"
	IDSummary        = "summary-text"
	IDAudience       = "audience-text"
	IDCopySummary    = "copy-summary-btn"
	IDDownloadResult = "download-analysis-btn"
	IDQuizPanel      = "quiz-panel"
	IDScore          = "quiz-score"
	IDCopyQuiz       = "copy-quiz-btn"
	IDDownloadQuiz   = "download-quiz-btn"
)

// Render composes the whole page from the current state.
func (c *Controller) Render() view.Node {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.printer
	locked := c.inputLocked()
	valid := c.validation.Valid()

	validationMsg := ""
	if c.validation.Message != "" {
		validationMsg = p.Sprintf(msgInvalidURL)
	}

	controls := view.Node{
		Kind: view.KindSection,
		ID:   "controls",
		Children: []view.Node{
			{Kind: view.KindHeading, Text: p.Sprintf(labelTitle)},
			{
				Kind:     view.KindInput,
				ID:       IDURLInput,
				Text:     c.input,
				Props:    map[string]string{"placeholder": p.Sprintf(labelURL)},
				Disabled: locked,
				Action:   &view.Action{Kind: view.ActionInput},
			},
			{
				Kind:   view.KindText,
				ID:     IDValidation,
				Text:   validationMsg,
				Tone:   view.ToneError,
				Hidden: validationMsg == "",
			},
			{
				Kind:     view.KindButton,
				ID:       IDAnalyzeButton,
				Text:     p.Sprintf(labelAnalyze),
				Disabled: !valid || c.analyzing,
				Loading:  c.analyzing,
				Action:   &view.Action{Kind: view.ActionAnalyze},
			},
			{
				Kind:     view.KindButton,
				ID:       IDQuizButton,
				Text:     p.Sprintf(labelQuiz),
				Disabled: !valid || c.quizzing,
				Loading:  c.quizzing,
				Action:   &view.Action{Kind: view.ActionQuiz},
			},
		},
	}

	status := view.Node{
		Kind:   view.KindStatus,
		ID:     IDStatus,
		Text:   c.status.Text,
		Tone:   c.status.Tone,
		Hidden: c.status.Text == "",
	}

	results := view.Node{
		Kind:     view.KindSection,
		ID:       IDResults,
		Hidden:   c.analysis == nil && c.quizSet == nil,
		Children: []view.Node{c.renderVideo(), c.renderAnalysis(), c.renderQuiz()},
	}

	return view.Node{
		Kind:     view.KindPage,
		ID:       "page",
		Children: []view.Node{controls, status, results},
	}
}

func (c *Controller) renderVideo() view.Node {
	n := view.Node{Kind: view.KindSection, ID: IDVideo, Hidden: c.embed == nil}
	if c.embed == nil {
		return n
	}
	n.Children = []view.Node{
		{
			Kind: view.KindEmbed,
			ID:   "video-embed",
			Props: map[string]string{
				"src":   c.embed.Src,
				"title": c.embed.Title,
				"allow": c.embed.Allow,
			},
		},
		{Kind: view.KindText, ID: IDVideoTitle, Text: c.printer.Sprintf(msgVideoID, c.embed.VideoID)},
	}
	return n
}

func (c *Controller) renderAnalysis() view.Node {
	n := view.Node{Kind: view.KindSection, ID: IDAnalysis, Hidden: c.analysis == nil}
	if c.analysis == nil {
		return n
	}
	p := c.printer

	chips := make([]view.Node, 0, len(c.analysis.Topics))
	for _, topic := range c.analysis.Topics {
		chips = append(chips, view.Node{Kind: view.KindChip, Text: topic})
	}

	n.Children = []view.Node{
		{Kind: view.KindHeading, Text: p.Sprintf(labelTopics)},
		{Kind: view.KindChipList, ID: IDTopics, Children: chips},
		{Kind: view.KindHeading, Text: p.Sprintf(labelSummary)},
		{Kind: view.KindText, ID: IDSummary, Text: c.analysis.Summary},
		{Kind: view.KindHeading, Text: p.Sprintf(labelAudience)},
		{Kind: view.KindText, ID: IDAudience, Text: c.analysis.Audience},
		{Kind: view.KindButton, ID: IDCopySummary, Text: p.Sprintf(labelCopy), Action: &view.Action{Kind: view.ActionCopySummary}},
		{Kind: view.KindButton, ID: IDDownloadResult, Text: p.Sprintf(labelDownload), Action: &view.Action{Kind: view.ActionDownloadAnalysis}},
	}
	return n
}

func (c *Controller) renderQuiz() view.Node {
	n := view.Node{Kind: view.KindSection, ID: IDQuizPanel, Hidden: c.engine == nil}
	if c.engine == nil {
		return n
	}
	p := c.printer

	answered, correct := c.engine.Score()
	n.Children = []view.Node{
		{Kind: view.KindHeading, Text: p.Sprintf(labelQuizHeading)},
		{
			Kind:   view.KindText,
			ID:     IDScore,
			Text:   p.Sprintf(msgScore, correct, c.engine.Len()),
			Hidden: answered == 0,
		},
		c.engine.Render(),
		{Kind: view.KindButton, ID: IDCopyQuiz, Text: p.Sprintf(labelCopyJSON), Action: &view.Action{Kind: view.ActionCopyQuiz}},
		{Kind: view.KindButton, ID: IDDownloadQuiz, Text: p.Sprintf(labelDownload), Action: &view.Action{Kind: view.ActionDownloadQuiz}},
	}
	return n
}
