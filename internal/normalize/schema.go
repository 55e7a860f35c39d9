package normalize

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Kind identifies which response shape a body should have.
type Kind string

const (
	KindAnalysis Kind = "analysis"
	KindQuiz     Kind = "quiz"
)

// The schemas describe what the backend is expected to send. They are
// stricter than the normalizer and only feed diagnostics.
const analysisSchema = `{
  "type": "object",
  "properties": {
    "main_topics": {"type": "array", "items": {"type": "string"}},
    "key_topics": {"type": "array", "items": {"type": "string"}},
    "summary": {"type": "string"},
    "recommended_audience": {"type": "string"}
  },
  "anyOf": [
    {"required": ["main_topics"]},
    {"required": ["key_topics"]}
  ],
  "required": ["summary", "recommended_audience"]
}`

const quizSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["question", "options"],
        "properties": {
          "question": {"type": "string"},
          "options": {
            "oneOf": [
              {"type": "array", "items": {"type": "string"}, "minItems": 2},
              {"type": "object", "additionalProperties": {"type": "string"}, "minProperties": 2}
            ]
          },
          "correct": {"type": "string"},
          "correct_answer": {"type": "string"}
        },
        "anyOf": [
          {"required": ["correct"]},
          {"required": ["correct_answer"]}
        ]
      }
    }
  }
}`

var schemas = sync.OnceValues(func() (map[Kind]*gojsonschema.Schema, error) {
	out := make(map[Kind]*gojsonschema.Schema, 2)
	for kind, src := range map[Kind]string{KindAnalysis: analysisSchema, KindQuiz: quizSchema} {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", kind, err)
		}
		out[kind] = s
	}
	return out, nil
})

// Check validates body against the expected shape for kind and returns
// one message per violation. An empty result means the body conforms.
func Check(kind Kind, body []byte) ([]string, error) {
	all, err := schemas()
	if err != nil {
		return nil, err
	}
	schema, ok := all[kind]
	if !ok {
		return nil, fmt.Errorf("unknown response kind %q", kind)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validate %s response: %w", kind, err)
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}
