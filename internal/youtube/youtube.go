// Package youtube validates video URLs and builds embeddable player references.
package youtube

import "regexp"

// InvalidURLMessage is shown for non-empty input that is not a video URL.
const InvalidURLMessage = "Please enter a valid YouTube URL"

const embedBaseURL = "https://www.youtube.com/embed/"

// embedAllow is the iframe permission policy for the player.
const embedAllow = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"

var videoURLPattern = regexp.MustCompile(`^https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11}).*$`)

// State classifies user input.
type State int

const (
	// StateEmpty is the neutral state: no input, no message.
	StateEmpty State = iota
	// StateValid means the input is a recognised video URL.
	StateValid
	// StateInvalid means non-empty input that is not a video URL.
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Validation is the outcome of validating one input string.
type Validation struct {
	Input   string
	State   State
	VideoID string
	Message string
}

// Valid reports whether the input was accepted.
func (v Validation) Valid() bool {
	return v.State == StateValid
}

// Validate classifies input. Empty input is distinct from invalid input:
// only the latter carries a message.
func Validate(input string) Validation {
	if input == "" {
		return Validation{State: StateEmpty}
	}
	id, ok := ExtractVideoID(input)
	if !ok {
		return Validation{Input: input, State: StateInvalid, Message: InvalidURLMessage}
	}
	return Validation{Input: input, State: StateValid, VideoID: id}
}

// ExtractVideoID returns the 11-character identifier that immediately
// follows a recognised watch or short-link prefix.
func ExtractVideoID(url string) (string, bool) {
	m := videoURLPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// EmbedRef describes an embeddable player for one video.
type EmbedRef struct {
	VideoID string `json:"video_id"`
	Src     string `json:"src"`
	Title   string `json:"title"`
	Allow   string `json:"allow"`
}

// Embed returns the player reference for a validated video identifier.
func Embed(videoID string) EmbedRef {
	return EmbedRef{
		VideoID: videoID,
		Src:     embedBaseURL + videoID,
		Title:   "Video ID: " + videoID,
		Allow:   embedAllow,
	}
}
