package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// QuestionStatus is the server-assigned lifecycle state of a question.
// Unknown values are carried through verbatim.
type QuestionStatus string

const (
	StatusPending  QuestionStatus = "pending"
	StatusApproved QuestionStatus = "approved"
	StatusRejected QuestionStatus = "rejected"
	StatusMerged   QuestionStatus = "merged"
	StatusDeleted  QuestionStatus = "deleted"
	StatusFlagged  QuestionStatus = "flagged"
)

// Approved reports whether s is exactly "approved". Every other status,
// known or not, counts as not approved.
func (s QuestionStatus) Approved() bool { return s == StatusApproved }

// Question is an attendee question.
type Question struct {
	ID            ID             `json:"id"`
	Text          string         `json:"text"`
	Status        QuestionStatus `json:"status"`
	UserID        string         `json:"user_id,omitempty"`
	User          UserRef        `json:"user"`
	SessionID     string         `json:"session_id,omitempty"`
	Timestamp     Timestamp      `json:"timestamp"`
	ExcludeFromAI bool           `json:"exclude_from_ai,omitempty"`
}

// AuthorInitials resolves the initials shown next to a question. The
// embedded user reference wins; the bare user id is the fallback.
func (q Question) AuthorInitials() string {
	if q.User.DisplayName() != "" {
		return q.User.Initials()
	}
	if q.UserID != "" {
		return Initials(q.UserID)
	}
	return "??"
}

// SortNewestFirst orders questions by timestamp, most recent first. Ties keep
// their relative order.
func SortNewestFirst(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].Timestamp.After(qs[j].Timestamp.Time)
	})
}

// UserRefKind tags which shape a question's "user" field had on the wire.
type UserRefKind string

const (
	UserRefNone    UserRefKind = "none"
	UserRefString  UserRefKind = "string"
	UserRefProfile UserRefKind = "profile"
)

// UserRef is the author reference attached to a question. The backend sends
// either a bare string or an object with a name; the shape is resolved once
// while decoding so that rendering never inspects raw JSON.
type UserRef struct {
	Kind  UserRefKind
	Value string // set when Kind is UserRefString
	Name  string // set when Kind is UserRefProfile
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*u = UserRef{Kind: UserRefNone}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			*u = UserRef{Kind: UserRefString, Value: s}
		}
		return nil
	case data[0] == '{':
		var p struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*u = UserRef{Kind: UserRefProfile, Name: p.Name}
		return nil
	default:
		// Numbers, arrays and booleans carry no displayable name.
		return nil
	}
}

// MarshalJSON writes the reference back in its original shape.
func (u UserRef) MarshalJSON() ([]byte, error) {
	switch u.Kind {
	case UserRefString:
		return json.Marshal(u.Value)
	case UserRefProfile:
		return json.Marshal(struct {
			Name string `json:"name"`
		}{u.Name})
	default:
		return []byte("null"), nil
	}
}

// DisplayName is the text a view shows for the author.
func (u UserRef) DisplayName() string {
	switch u.Kind {
	case UserRefString:
		return u.Value
	case UserRefProfile:
		return u.Name
	default:
		return ""
	}
}

// Initials returns the author's initials, or "??" when none can be derived.
func (u UserRef) Initials() string {
	return Initials(u.DisplayName())
}

// SynthesizedQuestion is an AI-condensed question awaiting or past moderation.
type SynthesizedQuestion struct {
	ID     ID             `json:"id"`
	Text   string         `json:"text"`
	Status QuestionStatus `json:"status,omitempty"`
}

// AdminQuestion is a question row from the global admin listing.
type AdminQuestion struct {
	Question
	EventID    string `json:"event_id,omitempty"`
	EventTitle string `json:"event_title,omitempty"`
	UserName   string `json:"user_name,omitempty"`
}

// EventLabel is the event column of the admin table.
func (q AdminQuestion) EventLabel() string {
	switch {
	case q.EventTitle != "":
		return q.EventTitle
	case q.EventID != "":
		return q.EventID
	default:
		return q.SessionID
	}
}

// AuthorLabel is the user column of the admin table.
func (q AdminQuestion) AuthorLabel() string {
	if q.UserName != "" {
		return q.UserName
	}
	return q.UserID
}

// SynthesisResult is the response of a synthesis request.
type SynthesisResult struct {
	Summary string `json:"summary"`
}
