package view

import (
	"github.com/quorix/quorix/internal/model"
)

// Variant is one of the fixed top-level dashboards.
type Variant int

const (
	Anonymous Variant = iota
	Attendee
	Moderator
	Organizer
	Speaker
	SpeakerEmbed
	Audience
	Admin
	EventLanding
)

var variantNames = [...]string{
	Anonymous:    "anonymous",
	Attendee:     "attendee",
	Moderator:    "moderator",
	Organizer:    "organizer",
	Speaker:      "speaker",
	SpeakerEmbed: "speaker_embed",
	Audience:     "audience",
	Admin:        "admin",
	EventLanding: "event_landing",
}

func (v Variant) String() string {
	if int(v) < 0 || int(v) >= len(variantNames) {
		return "unknown"
	}
	return variantNames[v]
}

// Panel is an inline section a dashboard adds for some roles. The root route
// adds them by role; /admin carries the admin panel for admins.
type Panel string

const (
	PanelOrganizerSummary Panel = "organizer_summary"
	PanelAdmin            Panel = "admin"
)

// Capabilities are the actions a mounted dashboard exposes. The backend
// re-checks every one of them; these only decide what is offered.
type Capabilities struct {
	Approve      bool
	Delete       bool
	Flag         bool
	Merge        bool
	Synthesize   bool
	Ban          bool
	EditEvent    bool
	ManageRoles  bool
	ManageUsers  bool
	ModerateChat bool
	PublishLinks bool
	Dismiss      bool
	AskQuestions bool
	Chat         bool
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Variant Variant
	// Role is the effective role after any override.
	Role model.Role
	// Overridden is set when an admin's debug override was applied.
	Overridden bool
	// SessionID is the event addressed by the route, if any.
	SessionID string
	// LoginRequired is set when the route needs an identity and there is
	// none; Variant is then Anonymous.
	LoginRequired bool
	Panels        []Panel
	Capabilities  Capabilities
	Route         Route
}

// HasPanel reports whether p is among the resolution's panels.
func (r Resolution) HasPanel(p Panel) bool {
	for _, have := range r.Panels {
		if have == p {
			return true
		}
	}
	return false
}

// EffectiveRole is override when identity is an admin and override is set,
// else the identity's own role. A nil identity has no role.
func EffectiveRole(identity *model.Identity, override model.Role) (model.Role, bool) {
	if identity == nil {
		return model.RoleNone, false
	}
	if override != model.RoleNone && identity.Role == model.RoleAdmin {
		return override, override != identity.Role
	}
	return identity.Role, false
}

// Resolve decides which dashboard to mount for identity at route.
//
// Path-addressed routes win over the role: the addressed dashboard is
// mounted whatever the role, and re-validates with the backend itself.
// Routes that act on behalf of a user still need an identity. The root
// route resolves by role and adds inline panels for organizers and admins.
// A role the client does not know gets the attendee dashboard with no
// panels.
func Resolve(identity *model.Identity, route string, override model.Role) Resolution {
	r := ParseRoute(route)
	role, overridden := EffectiveRole(identity, override)
	res := Resolution{Route: r, Role: role, Overridden: overridden, SessionID: r.SessionID}

	switch r.Kind {
	case RouteEventLanding:
		res.Variant = EventLanding
	case RouteAudience:
		res.Variant = Audience
	case RouteSpeakerEmbed:
		res.Variant = SpeakerEmbed
	case RouteSpeaker:
		res.Variant = Speaker
	case RouteModerator:
		res.Variant = Moderator
	case RouteOrganizer:
		res.Variant = Organizer
	case RouteSession:
		res.Variant = Attendee
	case RouteAdmin:
		res.Variant = Admin
		if role == model.RoleAdmin {
			res.Panels = []Panel{PanelAdmin}
		}
	default:
		res.Variant, res.Panels = resolveRoot(identity, role)
	}

	if identity == nil && requiresIdentity(res.Variant) {
		res.Variant = Anonymous
		res.LoginRequired = r.Kind != RouteRoot
		res.Panels = nil
	}
	res.Capabilities = CapabilitiesFor(res.Variant, role)
	return res
}

func resolveRoot(identity *model.Identity, role model.Role) (Variant, []Panel) {
	if identity == nil {
		return Anonymous, nil
	}
	switch role {
	case model.RoleAdmin:
		return Admin, []Panel{PanelAdmin}
	case model.RoleOrganizer:
		return Organizer, []Panel{PanelOrganizerSummary}
	case model.RoleModerator:
		return Moderator, nil
	case model.RoleSpeaker:
		return Speaker, nil
	default:
		return Attendee, nil
	}
}

func requiresIdentity(v Variant) bool {
	switch v {
	case Attendee, Moderator, Organizer, Admin:
		return true
	}
	return false
}

// CapabilitiesFor returns what dashboard v offers to role.
func CapabilitiesFor(v Variant, role model.Role) Capabilities {
	var c Capabilities
	moderate := func() {
		c.Approve, c.Delete, c.Flag = true, true, true
		c.Merge, c.Synthesize, c.Ban = true, true, true
		c.ModerateChat, c.PublishLinks = true, true
	}

	switch v {
	case Attendee:
		c.AskQuestions, c.Chat = true, true
	case Moderator:
		moderate()
	case Organizer:
		moderate()
		c.EditEvent, c.ManageRoles = true, true
	case Speaker, SpeakerEmbed:
		c.Dismiss = true
	case Admin:
		c.ManageUsers, c.Ban = true, true
	}
	if role == model.RoleAdmin && v != Anonymous {
		c.ManageUsers = true
	}
	return c
}
