// Package moderation holds the moderator's local view of an event's
// question queue.
//
// The queue is replaced wholesale by every poll; between polls, moderator
// actions remove questions optimistically. The next poll is the only source
// of truth, so anything removed locally that the backend still reports comes
// back. The queue is not safe for concurrent use; the dashboard owns it.
package moderation

import (
	"github.com/quorix/quorix/internal/model"
)

// MinMerge is the smallest selection a merge accepts.
const MinMerge = 2

// Queue is the moderator's question list plus the merge selection.
type Queue struct {
	questions []model.Question
	selected  map[model.ID]bool
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{selected: make(map[model.ID]bool)}
}

// Apply replaces the list with a polled snapshot. Selected ids that are no
// longer in the snapshot are deselected.
func (q *Queue) Apply(snapshot []model.Question) {
	q.questions = append(q.questions[:0:0], snapshot...)
	present := make(map[model.ID]bool, len(snapshot))
	for _, item := range snapshot {
		present[item.ID] = true
	}
	for id := range q.selected {
		if !present[id] {
			delete(q.selected, id)
		}
	}
}

// All returns the whole list in snapshot order.
func (q *Queue) All() []model.Question {
	return append([]model.Question(nil), q.questions...)
}

// Len returns the number of questions held.
func (q *Queue) Len() int { return len(q.questions) }

// Pending returns every question whose status is not approved. Together
// with Approved it partitions the list: each question is in exactly one.
func (q *Queue) Pending() []model.Question {
	return q.filter(func(item model.Question) bool { return !item.Status.Approved() })
}

// Approved returns every approved question.
func (q *Queue) Approved() []model.Question {
	return q.filter(func(item model.Question) bool { return item.Status.Approved() })
}

func (q *Queue) filter(keep func(model.Question) bool) []model.Question {
	out := []model.Question{}
	for _, item := range q.questions {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Get returns the question with id.
func (q *Queue) Get(id model.ID) (model.Question, bool) {
	for _, item := range q.questions {
		if item.ID == id {
			return item, true
		}
	}
	return model.Question{}, false
}

// Toggle flips id's membership in the merge selection. Unknown ids are
// ignored.
func (q *Queue) Toggle(id model.ID) {
	if _, ok := q.Get(id); !ok {
		return
	}
	if q.selected[id] {
		delete(q.selected, id)
		return
	}
	q.selected[id] = true
}

// IsSelected reports whether id is selected for merging.
func (q *Queue) IsSelected(id model.ID) bool { return q.selected[id] }

// Selected returns the selected ids in list order.
func (q *Queue) Selected() []model.ID {
	out := []model.ID{}
	for _, item := range q.questions {
		if q.selected[item.ID] {
			out = append(out, item.ID)
		}
	}
	return out
}

// ClearSelection empties the merge selection.
func (q *Queue) ClearSelection() {
	clear(q.selected)
}

// CanMerge reports whether enough questions are selected to merge.
func (q *Queue) CanMerge() bool { return len(q.selected) >= MinMerge }

// Remove drops id from the local list as soon as an approve, delete or flag
// is issued. It reports whether the id was present.
func (q *Queue) Remove(id model.ID) bool {
	for i, item := range q.questions {
		if item.ID == id {
			q.questions = append(q.questions[:i:i], q.questions[i+1:]...)
			delete(q.selected, id)
			return true
		}
	}
	return false
}

// MergeSucceeded removes exactly the merged ids and drops them from the
// selection. Questions selected after the merge was sent stay selected. It
// returns the ids that were still present.
func (q *Queue) MergeSucceeded(merged []model.ID) []model.ID {
	gone := make(map[model.ID]bool, len(merged))
	for _, id := range merged {
		gone[id] = true
		delete(q.selected, id)
	}
	removed := []model.ID{}
	kept := q.questions[:0:0]
	for _, item := range q.questions {
		if gone[item.ID] {
			removed = append(removed, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	q.questions = kept
	return removed
}

// SetExcluded records a confirmed AI-exclusion change. It reports whether
// the id was present.
func (q *Queue) SetExcluded(id model.ID, exclude bool) bool {
	for i := range q.questions {
		if q.questions[i].ID == id {
			q.questions[i].ExcludeFromAI = exclude
			return true
		}
	}
	return false
}
