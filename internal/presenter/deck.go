// Package presenter implements speaker navigation over the approved
// questions of an event.
//
// A Deck is a cursor over a polled list. Next and Prev clamp at the ends,
// and Dismiss hides the current question locally until the next poll
// replaces the list. An Embed adds the unattended slide behaviour: controls
// that hide after a few seconds without input, and optional auto-advance.
package presenter

import (
	"fmt"

	"github.com/quorix/quorix/internal/model"
)

// EmptyText is shown when there is nothing to present.
const EmptyText = "No approved questions yet."

// Deck is a clamped cursor over a list of questions.
type Deck struct {
	items []model.Question
	index int
}

// Replace swaps in a polled list, keeping the cursor position clamped to
// the new length.
func (d *Deck) Replace(items []model.Question) {
	d.items = append(d.items[:0:0], items...)
	d.clamp()
}

// Len returns the number of questions.
func (d *Deck) Len() int { return len(d.items) }

// Empty reports whether there is nothing to present.
func (d *Deck) Empty() bool { return len(d.items) == 0 }

// Index returns the zero-based cursor position.
func (d *Deck) Index() int { return d.index }

// Current returns the question under the cursor.
func (d *Deck) Current() (model.Question, bool) {
	if d.Empty() {
		return model.Question{}, false
	}
	return d.items[d.index], true
}

// HasPrev reports whether Prev would move; it is false at the first item.
func (d *Deck) HasPrev() bool { return d.index > 0 }

// HasNext reports whether Next would move; it is false at the last item.
func (d *Deck) HasNext() bool { return d.index < len(d.items)-1 }

// Next moves forward one question. It reports whether the cursor moved.
func (d *Deck) Next() bool {
	if !d.HasNext() {
		return false
	}
	d.index++
	return true
}

// Prev moves back one question. It reports whether the cursor moved.
func (d *Deck) Prev() bool {
	if !d.HasPrev() {
		return false
	}
	d.index--
	return true
}

// Dismiss removes the current question from the local list. When the last
// question is dismissed the cursor steps back so it stays on a question.
func (d *Deck) Dismiss() (model.Question, bool) {
	cur, ok := d.Current()
	if !ok {
		return model.Question{}, false
	}
	last := d.index == len(d.items)-1
	d.items = append(d.items[:d.index:d.index], d.items[d.index+1:]...)
	if last {
		d.index--
	}
	d.clamp()
	return cur, true
}

// Position renders "Question N of M", or EmptyText for an empty deck.
func (d *Deck) Position() string {
	if d.Empty() {
		return EmptyText
	}
	return fmt.Sprintf("Question %d of %d", d.index+1, len(d.items))
}

func (d *Deck) clamp() {
	switch {
	case len(d.items) == 0:
		d.index = 0
	case d.index >= len(d.items):
		d.index = len(d.items) - 1
	case d.index < 0:
		d.index = 0
	}
}
