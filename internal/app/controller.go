// Package app coordinates validation, backend calls, persistence and export
// into the state a UI adapter renders.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/text/message"

	"github.com/p-n-ai/pai-tube/internal/backend"
	"github.com/p-n-ai/pai-tube/internal/export"
	"github.com/p-n-ai/pai-tube/internal/model"
	"github.com/p-n-ai/pai-tube/internal/quiz"
	"github.com/p-n-ai/pai-tube/internal/store"
	"github.com/p-n-ai/pai-tube/internal/view"
	"github.com/p-n-ai/pai-tube/internal/youtube"
)

// DefaultStatusClearDelay is how long a copy confirmation stays visible.
const DefaultStatusClearDelay = 2 * time.Second

var (
	// ErrBusy is returned when an operation of the same kind is running.
	ErrBusy = errors.New("operation already in progress")
	// ErrNoURL is returned when an operation is requested without a valid URL.
	ErrNoURL = errors.New("no valid URL entered")
)

// Phase is the controller's position in the request lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseReady
	PhaseInvalid
	PhaseLoading
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseReady:
		return "ready"
	case PhaseInvalid:
		return "invalid"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Status is the banner message. An empty Text means hidden.
type Status struct {
	Text string
	Tone view.Tone
}

// Controller owns all presentation state. It is safe for concurrent use:
// adapters call it from event goroutines while backend calls run.
type Controller struct {
	gateway   backend.Gateway
	store     store.URLStore
	clipboard export.Clipboard
	exporter  *export.Exporter
	events    store.EventLogger
	logger    *slog.Logger
	printer   *message.Printer
	clearWait time.Duration
	onChange  func()

	mu         sync.Mutex
	input      string
	validation youtube.Validation
	phase      Phase
	analyzing  bool
	quizzing   bool
	status     Status
	statusSeq  uint64
	analysis   *model.AnalysisResult
	embed      *youtube.EmbedRef
	quizSet    *model.QuizSet
	engine     *quiz.Engine
}

// Option configures a Controller.
type Option func(*Controller)

// WithStore sets where the last URL is persisted.
func WithStore(s store.URLStore) Option {
	return func(c *Controller) { c.store = s }
}

// WithClipboard sets the clipboard used by copy actions.
func WithClipboard(cb export.Clipboard) Option {
	return func(c *Controller) { c.clipboard = cb }
}

// WithExporter sets the exporter used by download actions.
func WithExporter(e *export.Exporter) Option {
	return func(c *Controller) { c.exporter = e }
}

// WithEvents sets where activity events are recorded.
func WithEvents(l store.EventLogger) Option {
	return func(c *Controller) { c.events = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithLanguage selects the status and label language ("en", "ms").
func WithLanguage(lang string) Option {
	return func(c *Controller) { c.printer = newPrinter(lang) }
}

// WithStatusClearDelay overrides how long copy confirmations stay visible.
func WithStatusClearDelay(d time.Duration) Option {
	return func(c *Controller) { c.clearWait = d }
}

// WithOnChange registers a callback run after every asynchronous state
// change, so adapters can re-render. It is called without the lock held.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller in the idle phase.
func New(gateway backend.Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:   gateway,
		store:     store.NewMemoryStore(),
		clipboard: &export.MemoryClipboard{},
		exporter:  export.NewExporter(export.FormatJSON, nil),
		events:    store.NopEventLogger{},
		logger:    slog.Default(),
		printer:   newPrinter("en"),
		clearWait: DefaultStatusClearDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore loads the persisted URL, if any, and validates it.
func (c *Controller) Restore(ctx context.Context) error {
	url, err := c.store.LastURL(ctx)
	if err != nil {
		return fmt.Errorf("restore last url: %w", err)
	}
	if url != "" {
		c.logger.Info("restored last url", "url", url)
		c.SetInput(url)
	}
	return nil
}

// SetInput records the URL field contents and validates them. While an
// operation is loading the field is locked and the input is ignored.
func (c *Controller) SetInput(text string) youtube.Validation {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inputLocked() {
		return c.validation
	}
	c.input = text
	c.phase = PhaseValidating
	c.validation = youtube.Validate(text)
	switch c.validation.State {
	case youtube.StateValid:
		c.phase = PhaseReady
	case youtube.StateInvalid:
		c.phase = PhaseInvalid
	default:
		c.phase = PhaseIdle
	}
	return c.validation
}

// Analyze requests an analysis of the current URL. Backend failures become
// the status message; the returned error only reports a rejected request.
func (c *Controller) Analyze(ctx context.Context) error {
	url, err := c.begin(&c.analyzing)
	if err != nil {
		return err
	}
	defer c.finish(&c.analyzing)
	c.notify()

	c.persist(ctx, url)

	result, err := c.gateway.Analyze(ctx, url)

	c.mu.Lock()
	if err != nil {
		c.logger.Error("analysis failed", "url", url, "error", err)
		c.setStatus(c.printer.Sprintf(msgAnalyzeFailed, c.reason(err)), view.ToneError)
		c.phase = PhaseFailed
		c.mu.Unlock()
		c.record(store.Event{Type: store.EventAnalysisFailed, URL: url, Data: map[string]any{"error": err.Error()}})
		return nil
	}
	id, _ := youtube.ExtractVideoID(url)
	embed := youtube.Embed(id)
	c.analysis = &result
	c.embed = &embed
	c.setStatus(c.printer.Sprintf(msgAnalysisComplete), view.ToneSuccess)
	c.phase = PhaseSuccess
	c.mu.Unlock()

	c.logger.Info("analysis complete", "url", url, "topics", len(result.Topics))
	c.record(store.Event{Type: store.EventAnalysisCompleted, URL: url, Data: map[string]any{"topics": result.Topics}})
	return nil
}

// GenerateQuiz requests a quiz for the current URL. A new quiz replaces the
// previous one together with all of its answer state.
func (c *Controller) GenerateQuiz(ctx context.Context) error {
	url, err := c.begin(&c.quizzing)
	if err != nil {
		return err
	}
	defer c.finish(&c.quizzing)
	c.notify()

	c.persist(ctx, url)

	set, err := c.gateway.GenerateQuiz(ctx, url)

	c.mu.Lock()
	if err != nil {
		c.logger.Error("quiz generation failed", "url", url, "error", err)
		c.setStatus(c.printer.Sprintf(msgQuizFailed, c.reason(err)), view.ToneError)
		c.phase = PhaseFailed
		c.mu.Unlock()
		c.record(store.Event{Type: store.EventQuizFailed, URL: url, Data: map[string]any{"error": err.Error()}})
		return nil
	}
	c.quizSet = &set
	c.engine = quiz.New(set)
	c.setStatus(c.printer.Sprintf(msgQuizGenerated), view.ToneSuccess)
	c.phase = PhaseSuccess
	c.mu.Unlock()

	c.logger.Info("quiz generated", "url", url, "questions", len(set.Questions))
	c.record(store.Event{Type: store.EventQuizGenerated, URL: url, Data: map[string]any{"questions": len(set.Questions)}})
	return nil
}

func (c *Controller) begin(busy *bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if *busy {
		return "", ErrBusy
	}
	if !c.validation.Valid() {
		return "", ErrNoURL
	}
	*busy = true
	c.phase = PhaseLoading
	c.clearStatus()
	return c.validation.Input, nil
}

func (c *Controller) finish(busy *bool) {
	c.mu.Lock()
	*busy = false
	if c.inputLocked() {
		c.phase = PhaseLoading
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) persist(ctx context.Context, url string) {
	if err := c.store.SaveLastURL(ctx, url); err != nil {
		c.logger.Warn("failed to persist url", "url", url, "error", err)
	}
}

// reason renders a gateway error for the status banner.
func (c *Controller) reason(err error) string {
	var serverErr *backend.ServerError
	if errors.As(err, &serverErr) {
		return c.printer.Sprintf(msgServerError, serverErr.Status)
	}
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Err.Error()
	}
	return err.Error()
}

// Toggle expands or collapses quiz question q.
func (c *Controller) Toggle(q int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return fmt.Errorf("no quiz loaded")
	}
	return c.engine.Toggle(q)
}

// Select answers quiz question q with option key.
func (c *Controller) Select(q int, key string) error {
	c.mu.Lock()
	if c.engine == nil {
		c.mu.Unlock()
		return fmt.Errorf("no quiz loaded")
	}
	if err := c.engine.Select(q, key); err != nil {
		c.mu.Unlock()
		return err
	}
	correct := c.engine.Decoration(q, key) == view.DecorationCorrect
	url := c.validation.Input
	c.mu.Unlock()

	c.record(store.Event{Type: store.EventAnswerSelected, URL: url, Data: map[string]any{
		"question": q,
		"key":      key,
		"correct":  correct,
	}})
	return nil
}

// CopySummary copies the analysis summary. It reports false when no
// analysis is loaded.
func (c *Controller) CopySummary() (bool, error) {
	c.mu.Lock()
	analysis := c.analysis
	c.mu.Unlock()
	if analysis == nil || analysis.Summary == "" {
		return false, nil
	}
	return c.copy(export.AnalysisText(*analysis), msgSummaryCopied)
}

// CopyQuiz copies the quiz as pretty-printed JSON. It reports false when no
// quiz is loaded.
func (c *Controller) CopyQuiz() (bool, error) {
	c.mu.Lock()
	set := c.quizSet
	c.mu.Unlock()
	if set == nil {
		return false, nil
	}
	text, err := export.QuizText(*set)
	if err != nil {
		return false, err
	}
	return c.copy(text, msgQuizCopied)
}

func (c *Controller) copy(text, successKey string) (bool, error) {
	if err := c.clipboard.WriteText(text); err != nil {
		c.logger.Error("copy failed", "error", err)
		return false, fmt.Errorf("copy to clipboard: %w", err)
	}

	c.mu.Lock()
	c.setStatus(c.printer.Sprintf(successKey), view.ToneSuccess)
	seq := c.statusSeq
	c.mu.Unlock()

	time.AfterFunc(c.clearWait, func() {
		c.mu.Lock()
		cleared := c.statusSeq == seq
		if cleared {
			c.clearStatus()
		}
		c.mu.Unlock()
		if cleared {
			c.notify()
		}
	})
	return true, nil
}

// DownloadAnalysis exports the analysis through the configured exporter.
// It reports false when no analysis is loaded.
func (c *Controller) DownloadAnalysis(ctx context.Context) (export.Result, bool, error) {
	c.mu.Lock()
	analysis := c.analysis
	c.mu.Unlock()
	if analysis == nil {
		return export.Result{}, false, nil
	}
	res, err := c.exporter.Analysis(ctx, *analysis)
	return c.exported(res, err)
}

// DownloadQuiz exports the quiz through the configured exporter. It reports
// false when no quiz is loaded.
func (c *Controller) DownloadQuiz(ctx context.Context) (export.Result, bool, error) {
	c.mu.Lock()
	set := c.quizSet
	c.mu.Unlock()
	if set == nil {
		return export.Result{}, false, nil
	}
	res, err := c.exporter.Quiz(ctx, *set)
	return c.exported(res, err)
}

func (c *Controller) exported(res export.Result, err error) (export.Result, bool, error) {
	c.mu.Lock()
	if err != nil {
		c.logger.Error("export failed", "error", err)
		c.setStatus(c.printer.Sprintf(msgExportFailed, err.Error()), view.ToneError)
		c.mu.Unlock()
		return res, false, err
	}
	if len(res.Locations) > 0 {
		c.setStatus(c.printer.Sprintf(msgSaved, res.Locations[0]), view.ToneSuccess)
	}
	c.mu.Unlock()

	c.record(store.Event{Type: store.EventExported, Data: map[string]any{
		"file":      res.File.Name,
		"locations": res.Locations,
	}})
	return res, true, nil
}

// record logs an activity event. Failures are logged and otherwise ignored.
func (c *Controller) record(e store.Event) {
	if err := c.events.LogEvent(e); err != nil {
		c.logger.Warn("failed to record event", "type", e.Type, "error", err)
	}
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Status returns the current banner.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Validation returns the result of the last SetInput.
func (c *Controller) Validation() youtube.Validation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validation
}

// Analysis returns the last successful analysis.
func (c *Controller) Analysis() (model.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.analysis == nil {
		return model.AnalysisResult{}, false
	}
	return *c.analysis, true
}

// Quiz returns the last successful quiz.
func (c *Controller) Quiz() (model.QuizSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quizSet == nil {
		return model.QuizSet{}, false
	}
	return *c.quizSet, true
}

// Busy reports which operations are running.
func (c *Controller) Busy() (analyzing, quizzing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analyzing, c.quizzing
}

func (c *Controller) inputLocked() bool {
	return c.analyzing || c.quizzing
}

func (c *Controller) setStatus(text string, tone view.Tone) {
	c.status = Status{Text: text, Tone: tone}
	c.statusSeq++
}

func (c *Controller) clearStatus() {
	c.status = Status{}
	c.statusSeq++
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
