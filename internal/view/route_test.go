package view

import "testing"

func TestParseRoute(t *testing.T) {
	tests := []struct {
		raw     string
		kind    RouteKind
		session string
		path    string
	}{
		{"", RouteRoot, "", "/"},
		{"/", RouteRoot, "", "/"},
		{"/session/demo", RouteSession, "demo", "/session/demo"},
		{"session/demo/", RouteSession, "demo", "/session/demo"},
		{"/moderator/42", RouteModerator, "42", "/moderator/42"},
		{"/organizer/demo", RouteOrganizer, "demo", "/organizer/demo"},
		{"/speaker/demo", RouteSpeaker, "demo", "/speaker/demo"},
		{"/speaker/demo/embed?autoAdvance=true&interval=1", RouteSpeakerEmbed, "demo", "/speaker/demo/embed"},
		{"/audience/demo", RouteAudience, "demo", "/audience/demo"},
		{"/event/AB%20CD", RouteEventLanding, "AB CD", "/event/AB CD"},
		{"/admin", RouteAdmin, "", "/admin"},
		{"/profile/me", RouteUnknown, "", "/profile/me"},
		{"/speaker/demo/notes", RouteUnknown, "", "/speaker/demo/notes"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := ParseRoute(tt.raw)
			if r.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", r.Kind, tt.kind)
			}
			if r.SessionID != tt.session {
				t.Errorf("SessionID = %q, want %q", r.SessionID, tt.session)
			}
			if r.Path != tt.path {
				t.Errorf("Path = %q, want %q", r.Path, tt.path)
			}
		})
	}
}

func TestRoute_Query(t *testing.T) {
	r := ParseRoute("/speaker/demo/embed?autoAdvance=true&interval=1&bad=x&one=1&loud=TRUE")
	if r.Bool("one") {
		t.Error("\"1\" should not count as true")
	}
	if !r.Bool("loud") {
		t.Error("TRUE should count as true")
	}
	if !r.Bool("autoAdvance") {
		t.Error("autoAdvance should be true")
	}
	if r.Bool("missing") {
		t.Error("missing flag should be false")
	}
	if got := r.Int("interval", 60); got != 1 {
		t.Errorf("interval = %d", got)
	}
	if got := r.Int("bad", 60); got != 60 {
		t.Errorf("malformed int = %d, want default", got)
	}
	if got := r.Int("missing", 60); got != 60 {
		t.Errorf("missing int = %d, want default", got)
	}
}

func TestSessionRoute_RoundTrip(t *testing.T) {
	kinds := []RouteKind{RouteSession, RouteModerator, RouteOrganizer, RouteSpeaker, RouteSpeakerEmbed, RouteAudience, RouteEventLanding}
	for _, k := range kinds {
		r := ParseRoute(SessionRoute(k, "demo day"))
		if r.Kind != k || r.SessionID != "demo day" {
			t.Errorf("round trip of kind %v = %+v", k, r)
		}
	}
	if SessionRoute(RouteRoot, "x") != "/" {
		t.Error("root route should be /")
	}
}
