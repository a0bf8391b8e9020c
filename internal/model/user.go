package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role is the sole authorization signal the client trusts.
type Role string

const (
	RoleNone      Role = ""
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleModerator Role = "moderator"
	RoleSpeaker   Role = "speaker"
	RoleAttendee  Role = "attendee"
)

// Roles lists the roles the backend assigns, most privileged first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleOrganizer, RoleModerator, RoleSpeaker, RoleAttendee}
}

// ParseRole normalizes s. It never fails: an unrecognized value is kept
// verbatim (lower-cased) so view resolution can treat it as unknown.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether r is one of Roles().
func (r Role) Known() bool {
	for _, k := range Roles() {
		if r == k {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// Identity is the authenticated principal as reported by /login or
// /api/session.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}

// DisplayName prefers the name, then the email, then the id.
func (i Identity) DisplayName() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return i.UserID
	}
}

// BanType distinguishes permanent and temporary bans.
type BanType string

const (
	BanPermanent BanType = "permanent"
	BanTemporary BanType = "temporary"
)

// User is a row of the admin user listing.
type User struct {
	ID          string  `json:"user_id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        Role    `json:"role"`
	Banned      bool    `json:"banned,omitempty"`
	BanType     BanType `json:"banType,omitempty"`
	BanDuration int     `json:"banDuration,omitempty"`
}

// Ban is the body of a ban request. Duration is in hours and only
// meaningful for temporary bans.
type Ban struct {
	Type     BanType `json:"type"`
	Duration int     `json:"duration,omitempty"`
}

// RoleAssignment is one row of an event's role table.
type RoleAssignment struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
}

// UserEvents lists the events a user holds per-event roles in. The backend
// sends event records; bare ids are accepted too.
type UserEvents struct {
	ModeratorFor []Event `json:"moderator_for"`
	AttendeeIn   []Event `json:"attendee_in"`
}

// UnmarshalJSON accepts each entry as an event object or a bare id.
func (u *UserEvents) UnmarshalJSON(data []byte) error {
	var raw struct {
		ModeratorFor []json.RawMessage `json:"moderator_for"`
		AttendeeIn   []json.RawMessage `json:"attendee_in"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var err error
	if u.ModeratorFor, err = eventRefs(raw.ModeratorFor); err != nil {
		return err
	}
	u.AttendeeIn, err = eventRefs(raw.AttendeeIn)
	return err
}

func eventRefs(raw []json.RawMessage) ([]Event, error) {
	out := make([]Event, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '{' {
			var ev Event
			if err := json.Unmarshal(r, &ev); err != nil {
				return nil, err
			}
			out = append(out, ev)
			continue
		}
		var id ID
		if err := json.Unmarshal(r, &id); err != nil {
			return nil, err
		}
		if id != "" {
			out = append(out, Event{SessionID: id.String()})
		}
	}
	return out, nil
}

// Moderates reports whether sessionID is among the moderated events.
func (u UserEvents) Moderates(sessionID string) bool {
	for _, ev := range u.ModeratorFor {
		if ev.Key() == sessionID || (ev.ID != "" && ev.ID.String() == sessionID) {
			return true
		}
	}
	return false
}
