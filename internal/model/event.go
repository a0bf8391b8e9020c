package model

// Event is an event (session) as returned by /api/events and
// /api/session/:code. Different endpoints key it differently, so every
// identifier field is optional.
type Event struct {
	SessionID   string    `json:"session_id,omitempty"`
	EventID     string    `json:"event_id,omitempty"`
	ID          ID        `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Name        string    `json:"name,omitempty"`
	StartTime   Timestamp `json:"start_time"`
	Description string    `json:"description,omitempty"`
	Closed      bool      `json:"closed,omitempty"`
}

// Key returns the identifier used in routes.
func (e Event) Key() string {
	switch {
	case e.SessionID != "":
		return e.SessionID
	case e.EventID != "":
		return e.EventID
	default:
		return e.ID.String()
	}
}

// DisplayTitle falls back from title to name to the event key.
func (e Event) DisplayTitle() string {
	switch {
	case e.Title != "":
		return e.Title
	case e.Name != "":
		return e.Name
	default:
		return e.Key()
	}
}

// EventEdit is the body of an organizer metadata update.
type EventEdit struct {
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	Description string `json:"description"`
}

// ChatMessage is one message of an event chat.
type ChatMessage struct {
	ID        ID        `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id,omitempty"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

// Link is a moderator-published link.
type Link struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	PublishedBy string `json:"published_by,omitempty"`
}

// Label is the text shown for the link.
func (l Link) Label() string {
	if l.Title != "" {
		return l.Title
	}
	return l.URL
}
