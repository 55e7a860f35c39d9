// Package normalize maps heterogeneous backend responses onto the canonical
// model. Field precedence:
//
//	topics     main_topics, then key_topics, then empty
//	summary    summary, then model.NoSummary
//	audience   recommended_audience, then model.NoAudience
//	correct    correct, then correct_answer, then ""
//
// A field counts as present only when it is non-null and non-empty.
// Normalization never fails on missing fields; it fails only when the body is
// not a JSON object.
package normalize

import (
	"bytes"
	"fmt"

	"github.com/p-n-ai/pai-tube/internal/model"
)

// MalformedResponseError reports a response body that cannot be normalized.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Analysis normalizes an analysis response body.
func Analysis(body []byte) (model.AnalysisResult, error) {
	root, err := decodeObject(body)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	result := model.AnalysisResult{
		Topics:   []string{},
		Summary:  model.NoSummary,
		Audience: model.NoAudience,
	}
	if v, ok := root.firstTruthy("main_topics", "key_topics"); ok {
		if arr, ok := v.([]any); ok {
			for _, topic := range arr {
				result.Topics = append(result.Topics, text(topic))
			}
		}
	}
	if v, ok := root.firstTruthy("summary"); ok {
		result.Summary = text(v)
	}
	if v, ok := root.firstTruthy("recommended_audience"); ok {
		result.Audience = text(v)
	}
	return result, nil
}

// Quiz normalizes a quiz response body. The body itself is retained on the
// returned set for export.
func Quiz(body []byte) (model.QuizSet, error) {
	root, err := decodeObject(body)
	if err != nil {
		return model.QuizSet{}, err
	}

	set := model.QuizSet{
		Questions: []model.QuizQuestion{},
		Raw:       bytes.Clone(body),
	}
	v, _ := root.get("questions")
	arr, ok := v.([]any)
	if !ok {
		return set, nil
	}
	for _, raw := range arr {
		q, ok := raw.(*object)
		if !ok {
			continue
		}
		set.Questions = append(set.Questions, question(q))
	}
	return set, nil
}

func question(q *object) model.QuizQuestion {
	prompt, _ := q.get("question")
	out := model.QuizQuestion{
		Prompt:  text(prompt),
		Options: []model.Option{},
	}
	if v, ok := q.firstTruthy("correct", "correct_answer"); ok {
		out.CorrectKey = text(v)
	}

	opts, _ := q.get("options")
	switch t := opts.(type) {
	case []any:
		for i, opt := range t {
			out.Options = append(out.Options, model.Option{Key: letter(i), Text: text(opt)})
		}
	case *object:
		for _, k := range t.keys {
			out.Options = append(out.Options, model.Option{Key: k, Text: text(t.values[k])})
		}
	}
	return out
}

// letter returns the option key for position i: A, B, C...
func letter(i int) string {
	return string(rune('A' + i))
}
