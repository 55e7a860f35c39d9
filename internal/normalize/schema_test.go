package normalize

import "testing"

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		body      string
		wantClean bool
	}{
		{"analysis conforming", KindAnalysis, `{"main_topics":["a"],"summary":"s","recommended_audience":"r"}`, true},
		{"analysis key topics", KindAnalysis, `{"key_topics":["a"],"summary":"s","recommended_audience":"r"}`, true},
		{"analysis missing summary", KindAnalysis, `{"main_topics":["a"],"recommended_audience":"r"}`, false},
		{"analysis topics wrong type", KindAnalysis, `{"main_topics":"a","summary":"s","recommended_audience":"r"}`, false},
		{"quiz array options", KindQuiz, `{"questions":[{"question":"q","options":["a","b"],"correct":"A"}]}`, true},
		{"quiz mapping options", KindQuiz, `{"questions":[{"question":"q","options":{"A":"a","B":"b"},"correct_answer":"a"}]}`, true},
		{"quiz no correct", KindQuiz, `{"questions":[{"question":"q","options":["a","b"]}]}`, false},
		{"quiz missing questions", KindQuiz, `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := Check(tt.kind, []byte(tt.body))
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if clean := len(violations) == 0; clean != tt.wantClean {
				t.Errorf("Check() violations = %v, wantClean %v", violations, tt.wantClean)
			}
		})
	}
}

func TestCheck_UnknownKind(t *testing.T) {
	if _, err := Check(Kind("video"), []byte(`{}`)); err == nil {
		t.Fatal("Check() should reject unknown kinds")
	}
}
