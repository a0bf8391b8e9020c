package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/quorix/quorix/internal/model"
)

// ModAction is a per-question moderator action.
type ModAction string

const (
	ActionApprove ModAction = "approve"
	ActionDelete  ModAction = "delete"
	ActionFlag    ModAction = "flag"
)

// SynthAction is a disposition of a synthesized question.
type SynthAction string

const (
	SynthApprove SynthAction = "approve"
	SynthReject  SynthAction = "reject"
	SynthEdit    SynthAction = "edit"
)

// ChatSanction is a moderator control over a chat participant.
type ChatSanction string

const (
	SanctionMute  ChatSanction = "mute"
	SanctionExpel ChatSanction = "expel"
)

// -----------------------------------------------------------------------------
// Public and session endpoints
// -----------------------------------------------------------------------------

// Ping returns the backend's liveness message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	raw, err := c.send(ctx, http.MethodGet, "/api/ping", nil)
	if err != nil {
		return "", err
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message, nil
	}
	return strings.TrimSpace(string(raw)), nil
}

// Session returns the identity bound to the current cookie or token.
func (c *Client) Session(ctx context.Context) (*model.Identity, error) {
	var id model.Identity
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, &id); err != nil {
		return nil, err
	}
	id.Role = model.ParseRole(string(id.Role))
	return &id, nil
}

// Login exchanges an email and event session code for an identity.
func (c *Client) Login(ctx context.Context, email, sessionCode string) (*model.Identity, error) {
	body := map[string]string{"email": email, "session_code": sessionCode}
	var id model.Identity
	if err := c.do(ctx, http.MethodPost, "/login", body, &id); err != nil {
		return nil, err
	}
	if id.Email == "" {
		id.Email = email
	}
	id.Role = model.ParseRole(string(id.Role))
	return &id, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

// Events lists all events.
func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	return getList[model.Event](ctx, c, "/api/events")
}

// Event returns one event's metadata by session id or join code.
func (c *Client) Event(ctx context.Context, code string) (*model.Event, error) {
	var ev model.Event
	if err := c.do(ctx, http.MethodGet, "/api/session/"+esc(code), nil, &ev); err != nil {
		return nil, err
	}
	if ev.Key() == "" {
		ev.SessionID = code
	}
	return &ev, nil
}

// UserEvents lists the events a user holds per-event roles in.
func (c *Client) UserEvents(ctx context.Context, userID string) (*model.UserEvents, error) {
	var ue model.UserEvents
	if err := c.do(ctx, http.MethodGet, "/api/user/"+esc(userID)+"/events", nil, &ue); err != nil {
		return nil, err
	}
	return &ue, nil
}

// SessionQR returns the PNG QR code for an event's join link.
func (c *Client) SessionQR(ctx context.Context, sessionID string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, "/session_qr/"+esc(sessionID), nil)
}

// -----------------------------------------------------------------------------
// Attendee endpoints
// -----------------------------------------------------------------------------

// SubmitQuestion posts an attendee question.
func (c *Client) SubmitQuestion(ctx context.Context, userID, sessionID, text string) error {
	body := map[string]string{"user_id": userID, "session_id": sessionID, "question": text}
	return c.do(ctx, http.MethodPost, "/questions", body, nil)
}

// Questions lists an event's questions as attendees see them.
func (c *Client) Questions(ctx context.Context, sessionID string) ([]model.Question, error) {
	return getList[model.Question](ctx, c, "/api/questions/"+esc(sessionID))
}

// Chat lists an event's chat messages.
func (c *Client) Chat(ctx context.Context, eventID string) ([]model.ChatMessage, error) {
	return getList[model.ChatMessage](ctx, c, "/api/chat/"+esc(eventID))
}

// PostChat sends a chat message.
func (c *Client) PostChat(ctx context.Context, eventID, userID, text string) error {
	body := map[string]string{"user_id": userID, "text": text}
	return c.do(ctx, http.MethodPost, "/api/chat/"+esc(eventID), body, nil)
}

// SpeakerQuestions lists the approved questions for presentation.
func (c *Client) SpeakerQuestions(ctx context.Context, sessionID string) ([]model.Question, error) {
	return getList[model.Question](ctx, c, "/api/speaker/questions/"+esc(sessionID))
}

// AudienceSynthesized lists the approved synthesized questions shown to the room.
func (c *Client) AudienceSynthesized(ctx context.Context, sessionID string) ([]model.SynthesizedQuestion, error) {
	return getList[model.SynthesizedQuestion](ctx, c, "/api/audience/questions/synthesized/"+esc(sessionID))
}

// -----------------------------------------------------------------------------
// Moderator endpoints
// -----------------------------------------------------------------------------

// ModQuestions lists the moderation queue of an event.
func (c *Client) ModQuestions(ctx context.Context, sessionID string) ([]model.Question, error) {
	return getList[model.Question](ctx, c, "/api/mod/questions/"+esc(sessionID))
}

// ModerateQuestion applies approve, delete or flag to one question.
func (c *Client) ModerateQuestion(ctx context.Context, id model.ID, action ModAction) error {
	return c.do(ctx, http.MethodPost, "/api/mod/question/"+esc(id.String())+"/"+string(action), nil, nil)
}

// SetExcludeFromAI sets whether a question is left out of synthesis.
func (c *Client) SetExcludeFromAI(ctx context.Context, id model.ID, exclude bool) error {
	body := map[string]bool{"exclude_from_ai": exclude}
	return c.do(ctx, http.MethodPost, "/api/mod/question/"+esc(id.String())+"/exclude_from_ai", body, nil)
}

// Merge merges the given questions into one.
func (c *Client) Merge(ctx context.Context, ids []model.ID) error {
	body := map[string][]model.ID{"ids": ids}
	return c.do(ctx, http.MethodPost, "/api/mod/questions/merge", body, nil)
}

// Synthesize triggers AI synthesis for an event and returns its summary.
func (c *Client) Synthesize(ctx context.Context, sessionID string) (model.SynthesisResult, error) {
	raw, err := c.send(ctx, http.MethodPost, "/api/mod/questions/synthesize/"+esc(sessionID), nil)
	if err != nil {
		return model.SynthesisResult{}, err
	}
	var res model.SynthesisResult
	if json.Unmarshal(raw, &res) != nil {
		// The backend may answer with a bare JSON string.
		var s string
		if json.Unmarshal(raw, &s) == nil {
			res.Summary = s
		}
	}
	return res, nil
}

// Synthesized lists synthesized questions awaiting moderation.
func (c *Client) Synthesized(ctx context.Context, sessionID string) ([]model.SynthesizedQuestion, error) {
	return getList[model.SynthesizedQuestion](ctx, c, "/api/mod/questions/synthesized/"+esc(sessionID))
}

// DisposeSynthesized approves, rejects or edits a synthesized question.
// text is sent only for SynthEdit.
func (c *Client) DisposeSynthesized(ctx context.Context, id model.ID, action SynthAction, text string) error {
	var body any
	if action == SynthEdit {
		body = map[string]string{"text": text}
	}
	return c.do(ctx, http.MethodPost, "/api/mod/questions/synthesized/"+esc(id.String())+"/"+string(action), body, nil)
}

// DeleteChatMessage removes one chat message.
func (c *Client) DeleteChatMessage(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPost, "/api/mod/chat/message/"+esc(id.String())+"/delete", nil, nil)
}

// SanctionChatUser mutes or expels a user from an event chat.
func (c *Client) SanctionChatUser(ctx context.Context, eventID, userID string, s ChatSanction) error {
	return c.do(ctx, http.MethodPost, "/api/mod/chat/user/"+esc(eventID)+"/"+esc(userID)+"/"+string(s), nil, nil)
}

// Links lists moderator-published links for an event.
func (c *Client) Links(ctx context.Context, sessionID string) ([]model.Link, error) {
	return getList[model.Link](ctx, c, "/api/mod/links/"+esc(sessionID))
}

// PublishLink publishes a link to an event.
func (c *Client) PublishLink(ctx context.Context, sessionID string, link model.Link) error {
	body := map[string]string{"url": link.URL, "title": link.Title}
	return c.do(ctx, http.MethodPost, "/api/mod/links/"+esc(sessionID), body, nil)
}

// ModEvents lists the events the caller moderates.
func (c *Client) ModEvents(ctx context.Context) ([]model.Event, error) {
	return getList[model.Event](ctx, c, "/api/mod/events")
}

// CloseEvent closes an event to new questions.
func (c *Client) CloseEvent(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodPost, "/api/mod/events/"+esc(eventID)+"/close", nil, nil)
}

// ModBanUser bans a user from the moderator dashboard.
func (c *Client) ModBanUser(ctx context.Context, userID string, ban model.Ban) error {
	return c.do(ctx, http.MethodPost, "/api/mod/users/"+esc(userID)+"/ban", ban, nil)
}

// ModUnbanUser lifts a moderator ban.
func (c *Client) ModUnbanUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/mod/users/"+esc(userID)+"/unban", nil, nil)
}

// -----------------------------------------------------------------------------
// Organizer endpoints
// -----------------------------------------------------------------------------

// EditEvent saves event metadata.
func (c *Client) EditEvent(ctx context.Context, eventID string, edit model.EventEdit) error {
	return c.do(ctx, http.MethodPost, "/api/organizer/event/"+esc(eventID)+"/edit", edit, nil)
}

// EventRoles lists an event's role assignments.
func (c *Client) EventRoles(ctx context.Context, eventID string) ([]model.RoleAssignment, error) {
	return getList[model.RoleAssignment](ctx, c, "/api/organizer/event/"+esc(eventID)+"/roles")
}

// AddRole grants a per-event role to the user with the given email.
func (c *Client) AddRole(ctx context.Context, eventID, email string, role model.Role) error {
	body := map[string]string{"email": email, "role": string(role)}
	return c.do(ctx, http.MethodPost, "/api/organizer/event/"+esc(eventID)+"/add_role", body, nil)
}

// RemoveRole revokes a per-event role.
func (c *Client) RemoveRole(ctx context.Context, eventID, userID string, role model.Role) error {
	body := map[string]string{"user_id": userID, "role": string(role)}
	return c.do(ctx, http.MethodPost, "/api/organizer/event/"+esc(eventID)+"/remove_role", body, nil)
}

// -----------------------------------------------------------------------------
// Admin endpoints
// -----------------------------------------------------------------------------

// AdminUsers lists every user.
func (c *Client) AdminUsers(ctx context.Context) ([]model.User, error) {
	return getList[model.User](ctx, c, "/api/admin/users")
}

// SetUserRole changes a user's global role.
func (c *Client) SetUserRole(ctx context.Context, userID string, role model.Role) error {
	body := map[string]string{"role": string(role)}
	return c.do(ctx, http.MethodPost, "/api/admin/users/"+esc(userID)+"/role", body, nil)
}

// BanUser bans a user globally.
func (c *Client) BanUser(ctx context.Context, userID string, ban model.Ban) error {
	return c.do(ctx, http.MethodPost, "/api/admin/users/"+esc(userID)+"/ban", ban, nil)
}

// UnbanUser lifts a global ban.
func (c *Client) UnbanUser(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodPost, "/api/admin/users/"+esc(userID)+"/unban", nil, nil)
}

// AdminEvents lists every event.
func (c *Client) AdminEvents(ctx context.Context) ([]model.Event, error) {
	return getList[model.Event](ctx, c, "/api/admin/events")
}

// AdminQuestions lists every question, optionally only those of eventID.
func (c *Client) AdminQuestions(ctx context.Context, eventID string) ([]model.AdminQuestion, error) {
	path := "/api/admin/questions"
	if eventID != "" {
		path += "?event_id=" + url.QueryEscape(eventID)
	}
	return getList[model.AdminQuestion](ctx, c, path)
}
