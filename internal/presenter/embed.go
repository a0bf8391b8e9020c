package presenter

import (
	"time"

	"github.com/quorix/quorix/internal/model"
	"github.com/quorix/quorix/internal/view"
)

const (
	// ControlsTimeout is how long navigation controls stay up without input.
	ControlsTimeout = 5 * time.Second
	// DefaultInterval is the auto-advance period when none is given.
	DefaultInterval = 60 * time.Second
)

// EmbedOptions come from the embed route's query string.
type EmbedOptions struct {
	AutoAdvance bool
	Interval    time.Duration
}

// ParseEmbedOptions reads autoAdvance ("true" enables it) and interval
// (whole seconds, DefaultInterval when missing, malformed or not positive)
// from the embed route's query.
func ParseEmbedOptions(r view.Route) EmbedOptions {
	opts := EmbedOptions{
		AutoAdvance: r.Bool("autoAdvance"),
		Interval:    DefaultInterval,
	}
	if n := r.Int("interval", 0); n > 0 {
		opts.Interval = time.Duration(n) * time.Second
	}
	return opts
}

// Embed is a Deck for unattended display. All time is passed in so the
// caller decides between the wall clock and a test clock.
type Embed struct {
	Deck
	opts EmbedOptions

	visible     bool
	shownAt     time.Time
	lastAdvance time.Time
}

// NewEmbed starts with controls visible.
func NewEmbed(opts EmbedOptions, now time.Time) *Embed {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Embed{opts: opts, visible: true, shownAt: now, lastAdvance: now}
}

// Options returns the embed options.
func (e *Embed) Options() EmbedOptions { return e.opts }

// Activity records user input, which brings the controls back.
func (e *Embed) Activity(now time.Time) {
	e.visible = true
	e.shownAt = now
}

// ControlsVisible reports whether controls are showing at now.
func (e *Embed) ControlsVisible(now time.Time) bool {
	if e.visible && now.Sub(e.shownAt) >= ControlsTimeout {
		e.visible = false
	}
	return e.visible
}

// Replace swaps in a polled list. Auto-advance restarts its interval when
// the list grows from fewer than two questions.
func (e *Embed) Replace(items []model.Question, now time.Time) {
	if e.Len() < 2 && len(items) >= 2 {
		e.lastAdvance = now
	}
	e.Deck.Replace(items)
}

// Next, Prev and Dismiss wrap the deck's moves; a move while the controls
// are up keeps them up for another full timeout.

func (e *Embed) Next(now time.Time) bool { return e.moved(e.Deck.Next(), now) }

func (e *Embed) Prev(now time.Time) bool { return e.moved(e.Deck.Prev(), now) }

func (e *Embed) Dismiss(now time.Time) (model.Question, bool) {
	q, ok := e.Deck.Dismiss()
	e.moved(ok, now)
	return q, ok
}

// Tick advances one question when auto-advance is on, there are at least
// two questions, the cursor is not on the last one and a full interval has
// passed since the last advance. It reports whether it advanced.
func (e *Embed) Tick(now time.Time) bool {
	if !e.opts.AutoAdvance || e.Len() < 2 || !e.HasNext() {
		e.lastAdvance = now
		return false
	}
	if now.Sub(e.lastAdvance) < e.opts.Interval {
		return false
	}
	e.lastAdvance = now
	return e.moved(e.Deck.Next(), now)
}

func (e *Embed) moved(ok bool, now time.Time) bool {
	if ok {
		e.lastAdvance = now
		if e.ControlsVisible(now) {
			e.shownAt = now
		}
	}
	return ok
}
