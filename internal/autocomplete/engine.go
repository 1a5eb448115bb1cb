package autocomplete

import (
	"context"
	"sync"
	"time"

	"github.com/adamavenir/dispatch/internal/core"
	"github.com/adamavenir/dispatch/internal/types"
	"github.com/rs/zerolog"
)

// Lookuper resolves mention candidates. relay.Client implements it.
type Lookuper interface {
	Autocomplete(ctx context.Context, kind types.MentionKind, query string) (types.AutocompleteResponse, error)
}

// Result is the outcome of one debounced lookup.
type Result struct {
	Token       uint64
	Mention     core.Mention
	Suggestions []types.Suggestion
	Err         error
}

// Visible reports whether the dropdown should show rows for this result.
func (r Result) Visible() bool {
	return r.Err == nil && len(r.Suggestions) > 0
}

// Engine tracks the mention under the caret and runs debounced lookups for
// it. Every scheduled lookup gets a new token; results carrying an older
// token are dropped, so a slow response can never replace newer rows.
type Engine struct {
	lookup  Lookuper
	delay   time.Duration
	deliver func(Result)
	logger  zerolog.Logger

	mu      sync.Mutex
	token   uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	mention core.Mention
	active  bool
}

// New creates an engine. deliver is called from a timer goroutine with each
// result that is still current when the lookup returns.
func New(lookup Lookuper, delay time.Duration, deliver func(Result), logger zerolog.Logger) *Engine {
	if deliver == nil {
		deliver = func(Result) {}
	}
	return &Engine{
		lookup:  lookup,
		delay:   delay,
		deliver: deliver,
		logger:  logger.With().Str("component", "autocomplete").Logger(),
	}
}

// Update recomputes the mention state for value with the caret at the given
// rune offset. A new or changed mention restarts the debounce window; no
// mention clears state and invalidates pending work.
func (e *Engine) Update(value string, caret int) (core.Mention, bool) {
	m, ok := core.FindMention(value, caret)

	e.mu.Lock()
	defer e.mu.Unlock()

	if ok && e.active && m == e.mention {
		return m, true
	}
	e.invalidateLocked()
	if !ok {
		e.active = false
		e.mention = core.Mention{}
		return core.Mention{}, false
	}

	e.active = true
	e.mention = m
	token := e.token
	e.timer = time.AfterFunc(e.delay, func() {
		e.fire(token, m)
	})
	return m, true
}

// Current returns the mention being tracked, if any.
func (e *Engine) Current() (core.Mention, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mention, e.active
}

// Accept reports whether res is the latest lookup for the live mention.
// Call it on the goroutine that owns the view before showing rows.
func (e *Engine) Accept(res Result) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active && res.Token == e.token
}

// Select splices the chosen suggestion over the span recorded in m and
// resets the engine. It returns the new value and caret.
func (e *Engine) Select(value string, m core.Mention, choice types.Suggestion) (string, int, bool) {
	updated, caret, ok := core.SpliceMention(value, m, choice.ID)
	e.Reset()
	return updated, caret, ok
}

// Reset hides any mention state and drops pending and in-flight lookups.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidateLocked()
	e.active = false
	e.mention = core.Mention{}
}

// Close stops timers and in-flight lookups.
func (e *Engine) Close() {
	e.Reset()
}

func (e *Engine) invalidateLocked() {
	e.token++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) fire(token uint64, m core.Mention) {
	e.mu.Lock()
	if token != e.token {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.timer = nil
	e.cancel = cancel
	e.mu.Unlock()
	defer cancel()

	resp, err := e.lookup.Autocomplete(ctx, m.Kind, m.Query)
	res := Result{Token: token, Mention: m}
	switch {
	case err != nil:
		res.Err = err
	case resp.Success:
		res.Suggestions = resp.Results
	}

	e.mu.Lock()
	current := token == e.token
	e.mu.Unlock()
	if !current {
		e.logger.Debug().Uint64("token", token).Str("q", m.Query).Msg("dropping stale lookup")
		return
	}
	if err != nil {
		e.logger.Warn().Err(err).Str("type", string(m.Kind)).Str("q", m.Query).Msg("lookup failed")
	}
	e.deliver(res)
}
