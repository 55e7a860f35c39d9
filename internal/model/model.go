// Package model holds the canonical representation of backend responses,
// independent of the field names the backend happened to use.
package model

import "encoding/json"

// Placeholders used when the backend omits a field.
const (
	NoSummary  = "No summary available."
	NoAudience = "No audience recommendation."
)

// AnalysisResult is the normalized content analysis of one video.
type AnalysisResult struct {
	Topics   []string `json:"topics" yaml:"topics"`
	Summary  string   `json:"summary" yaml:"summary"`
	Audience string   `json:"audience" yaml:"audience"`
}

// Option is one answer choice of a quiz question.
type Option struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// Label returns the display form "A) text".
func (o Option) Label() string {
	return o.Key + ") " + o.Text
}

// QuizQuestion is a normalized multiple-choice question.
// CorrectKey is kept exactly as the backend sent it: a letter, a
// letter-prefixed string such as "A) Paris", or the full option text.
type QuizQuestion struct {
	Prompt     string   `json:"prompt" yaml:"prompt"`
	Options    []Option `json:"options" yaml:"options"`
	CorrectKey string   `json:"correct_key" yaml:"correct_key"`
}

// QuizSet is an ordered list of questions plus the untouched response
// payload, which is what gets copied and exported.
type QuizSet struct {
	Questions []QuizQuestion  `json:"questions" yaml:"questions"`
	Raw       json.RawMessage `json:"-" yaml:"-"`
}

// Export returns the value written by copy/download actions: the raw
// payload when one was retained, otherwise the normalized questions.
func (s QuizSet) Export() any {
	if len(s.Raw) > 0 {
		return s.Raw
	}
	return struct {
		Questions []QuizQuestion `json:"questions" yaml:"questions"`
	}{s.Questions}
}
