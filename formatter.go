package autoformat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-autoformat/internal/ai"
	"github.com/alnah/go-autoformat/internal/logger"
	"github.com/alnah/go-autoformat/internal/markup"
	"github.com/alnah/go-autoformat/internal/pipeline"
)

// State is a step of a single format request.
type State int

// Format request states. Every request starts and ends in StateIdle.
const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFallingBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFallingBack:
		return "falling-back"
	}
	return "unknown"
}

// DefaultAITimeout bounds a single AI call.
const DefaultAITimeout = 60 * time.Second

// Notices emitted by the Formatter.
var (
	noticeRuleFormatted = Notice{
		Level:       NoticeInfo,
		Title:       "Content formatted!",
		Description: "Your content has been automatically formatted.",
	}
	noticeFallback = Notice{
		Level:       NoticeWarning,
		Title:       "AI formatting unavailable",
		Description: "Your content was formatted with standard rules instead.",
	}
)

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithAIClient sets the AI client. Without one the Formatter is rule-based only.
func WithAIClient(c ai.Client) FormatterOption {
	return func(f *Formatter) {
		f.client = c
	}
}

// WithAITimeout bounds each AI call. Zero or negative disables the bound.
func WithAITimeout(d time.Duration) FormatterOption {
	return func(f *Formatter) {
		f.aiTimeout = d
	}
}

// WithNotifier sets the receiver of user-facing notices.
func WithNotifier(n Notifier) FormatterOption {
	return func(f *Formatter) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithLogger sets the logger used for state transitions and fallbacks.
func WithLogger(l *logger.Logger) FormatterOption {
	return func(f *Formatter) {
		if l != nil {
			f.log = l
		}
	}
}

// WithStateObserver registers a hook called on every state transition with
// the request id. The hook runs on the calling goroutine and must not block.
func WithStateObserver(fn func(requestID string, s State)) FormatterOption {
	return func(f *Formatter) {
		f.observer = fn
	}
}

// Formatter turns raw text into markup. It prefers the AI client and falls
// back to rule-based formatting on any AI failure. Safe for concurrent use.
type Formatter struct {
	client    ai.Client
	rules     pipeline.TextFormatter
	notifier  Notifier
	log       *logger.Logger
	aiTimeout time.Duration
	observer  func(string, State)
}

// NewFormatter creates a Formatter.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		rules:     &pipeline.RuleBased{},
		notifier:  nopNotifier{},
		log:       logger.Nop(),
		aiTimeout: DefaultAITimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HasAI reports whether an AI client is configured.
func (f *Formatter) HasAI() bool {
	return f.client != nil
}

// Format formats content with the given tone. An empty tone means
// DefaultTone. AI failures never surface as errors: the result then comes
// from the rule-based path and carries the failure in FallbackErr.
// Errors are ErrEmptyContent, ErrInvalidTone and the context error when ctx
// ends before a result is available.
func (f *Formatter) Format(ctx context.Context, content string, tone Tone) (*FormattingResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	tone, err := ai.ParseTone(string(tone))
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := f.log.With("request_id", id, "tone", tone.String())
	notifier := notifierFrom(ctx, f.notifier)

	f.transition(log, id, StateRequesting)
	defer f.transition(log, id, StateIdle)

	if f.client == nil {
		f.transition(log, id, StateFallingBack)
		notifier.Notify(noticeRuleFormatted)
		return f.formatRules(content), nil
	}

	formatted, aiErr := f.requestAI(ctx, content, tone)
	if aiErr == nil {
		f.transition(log, id, StateSucceeded)
		notifier.Notify(Notice{
			Level:       NoticeInfo,
			Title:       "Content formatted!",
			Description: fmt.Sprintf("Your content has been formatted with a %s tone.", tone),
		})
		return &FormattingResult{Markup: formatted, Source: SourceAI}, nil
	}

	// A caller that gave up does not want a fallback result.
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Debug("format request cancelled", "error", ctxErr)
		return nil, ctxErr
	}

	f.transition(log, id, StateFallingBack)
	log.Warn("AI formatting failed, using rule-based formatting", "error", aiErr)
	notifier.Notify(noticeFallback)

	res := f.formatRules(content)
	res.FallbackErr = aiErr
	return res, nil
}

// formatRules runs the rule-based path.
func (f *Formatter) formatRules(content string) *FormattingResult {
	return &FormattingResult{
		Markup: f.rules.FormatText(content),
		Source: SourceRuleBased,
	}
}

// aiResult carries the outcome of an AI call across goroutines.
type aiResult struct {
	markup string
	err    error
}

// requestAI calls the client under the AI timeout. The call runs in its own
// goroutine so a client that ignores its context cannot hold the request
// past the deadline. Panics inside the client become errors.
func (f *Formatter) requestAI(ctx context.Context, content string, tone Tone) (string, error) {
	if f.aiTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.aiTimeout)
		defer cancel()
	}

	resultCh := make(chan aiResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- aiResult{err: fmt.Errorf("AI client panic: %v", r)}
			}
		}()
		out, err := f.client.Format(ctx, content, tone)
		resultCh <- aiResult{markup: out, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return sanitizeAIMarkup(res.markup)
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ai.ErrTransport, ctx.Err())
	}
}

// sanitizeAIMarkup restricts client output to the allowed markup subset.
// Markup the policy or depth bound rejects is ErrUnsafeMarkup and markup
// with nothing left after sanitizing is ErrEmptyResult.
func sanitizeAIMarkup(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ai.ErrEmptyResult
	}
	clean, err := markup.Sanitize(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ai.ErrUnsafeMarkup, err)
	}
	if clean == "" {
		return "", fmt.Errorf("%w: no allowed markup left", ai.ErrUnsafeMarkup)
	}
	return clean, nil
}

func (f *Formatter) transition(log *logger.Logger, id string, s State) {
	log.Debug("format state", "state", s.String())
	if f.observer != nil {
		f.observer(id, s)
	}
}

// IsAIFailure reports whether err belongs to the AI path.
func IsAIFailure(err error) bool {
	return errors.Is(err, ai.ErrConfiguration) ||
		errors.Is(err, ai.ErrUpstream) ||
		errors.Is(err, ai.ErrEmptyResult) ||
		errors.Is(err, ai.ErrTransport) ||
		errors.Is(err, ai.ErrUnsafeMarkup)
}
