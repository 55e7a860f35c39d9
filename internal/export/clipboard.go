package export

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// OSC52Clipboard copies by writing an OSC 52 escape sequence to a terminal,
// which works over SSH and inside tmux or screen.
type OSC52Clipboard struct {
	w io.Writer
}

// NewOSC52Clipboard writes sequences to w, usually os.Stderr.
func NewOSC52Clipboard(w io.Writer) *OSC52Clipboard {
	return &OSC52Clipboard{w: w}
}

func (c *OSC52Clipboard) WriteText(text string) error {
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(c.w); err != nil {
		return fmt.Errorf("write clipboard sequence: %w", err)
	}
	return nil
}

// MemoryClipboard keeps the last copied text.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	n    int
}

func (c *MemoryClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.n++
	return nil
}

// Text returns the last copied text.
func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Writes returns how many times text was copied.
func (c *MemoryClipboard) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
