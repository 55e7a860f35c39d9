package youtube

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState State
		wantID    string
	}{
		{"watch https", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", StateValid, "dQw4w9WgXcQ"},
		{"watch http no www", "http://youtube.com/watch?v=dQw4w9WgXcQ", StateValid, "dQw4w9WgXcQ"},
		{"watch with extra query", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", StateValid, "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/abc_DEF-123", StateValid, "abc_DEF-123"},
		{"short link www", "https://www.youtu.be/abc_DEF-123?si=x", StateValid, "abc_DEF-123"},
		{"short link trailing path", "https://youtu.be/abc_DEF-123/more", StateValid, "abc_DEF-123"},
		{"empty", "", StateEmpty, ""},
		{"missing scheme", "youtube.com/watch?v=dQw4w9WgXcQ", StateInvalid, ""},
		{"id too short", "https://youtu.be/abc", StateInvalid, ""},
		{"illegal id char", "https://youtu.be/abc$DEF+123", StateInvalid, ""},
		{"other host", "https://vimeo.com/watch?v=dQw4w9WgXcQ", StateInvalid, ""},
		{"whitespace only", "   ", StateInvalid, ""},
		{"trailing line", "https://youtu.be/abcdefghijk\nfoo", StateInvalid, ""},
		{"trailing line on watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ\nhttps://evil.test", StateInvalid, ""},
		{"shorts path", "https://www.youtube.com/shorts/dQw4w9WgXcQ", StateInvalid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.input)
			if got.State != tt.wantState {
				t.Fatalf("State = %s, want %s", got.State, tt.wantState)
			}
			if got.VideoID != tt.wantID {
				t.Errorf("VideoID = %q, want %q", got.VideoID, tt.wantID)
			}
			if got.Valid() && len(got.VideoID) != 11 {
				t.Errorf("len(VideoID) = %d, want 11", len(got.VideoID))
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	if msg := Validate("").Message; msg != "" {
		t.Errorf("empty input message = %q, want none", msg)
	}
	if msg := Validate("not a url").Message; msg != InvalidURLMessage {
		t.Errorf("invalid input message = %q, want %q", msg, InvalidURLMessage)
	}
	if msg := Validate("https://youtu.be/dQw4w9WgXcQ").Message; msg != "" {
		t.Errorf("valid input message = %q, want none", msg)
	}
}

func TestExtractVideoID_TakesFirstElevenChars(t *testing.T) {
	id, ok := ExtractVideoID("https://youtu.be/dQw4w9WgXcQEXTRA")
	if !ok {
		t.Fatal("ExtractVideoID() should accept trailing characters")
	}
	if id != "dQw4w9WgXcQ" {
		t.Errorf("id = %q, want dQw4w9WgXcQ", id)
	}
}

func TestEmbed(t *testing.T) {
	ref := Embed("dQw4w9WgXcQ")
	if ref.Src != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Errorf("Src = %q", ref.Src)
	}
	if ref.Title != "Video ID: dQw4w9WgXcQ" {
		t.Errorf("Title = %q", ref.Title)
	}
	if ref.Allow == "" {
		t.Error("Allow should not be empty")
	}
}
