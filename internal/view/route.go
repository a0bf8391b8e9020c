package view

import (
	"net/url"
	"strconv"
	"strings"
)

// RouteKind classifies a route path.
type RouteKind int

const (
	RouteRoot RouteKind = iota
	RouteSession
	RouteModerator
	RouteOrganizer
	RouteSpeaker
	RouteSpeakerEmbed
	RouteAudience
	RouteEventLanding
	RouteAdmin
	RouteUnknown
)

// Route is a parsed client route such as "/speaker/demo/embed?autoAdvance=true".
type Route struct {
	Kind RouteKind
	Path string
	// SessionID is the :id (or :code) segment of path-addressed routes.
	SessionID string
	Query     url.Values
}

// ParseRoute parses raw. Unknown paths become RouteUnknown and resolve like
// the root route.
func ParseRoute(raw string) Route {
	raw = strings.TrimSpace(raw)
	path, query, _ := strings.Cut(raw, "?")
	values, err := url.ParseQuery(query)
	if err != nil {
		values = url.Values{}
	}

	segs := splitPath(path)
	r := Route{Kind: RouteUnknown, Path: "/" + strings.Join(segs, "/"), Query: values}

	switch {
	case len(segs) == 0:
		r.Kind = RouteRoot
	case len(segs) == 1 && segs[0] == "admin":
		r.Kind = RouteAdmin
	case len(segs) == 2:
		r.SessionID = segs[1]
		switch segs[0] {
		case "session":
			r.Kind = RouteSession
		case "moderator":
			r.Kind = RouteModerator
		case "organizer":
			r.Kind = RouteOrganizer
		case "speaker":
			r.Kind = RouteSpeaker
		case "audience":
			r.Kind = RouteAudience
		case "event":
			r.Kind = RouteEventLanding
		default:
			r.SessionID = ""
		}
	case len(segs) == 3 && segs[0] == "speaker" && segs[2] == "embed":
		r.Kind = RouteSpeakerEmbed
		r.SessionID = segs[1]
	}
	return r
}

func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		segs = append(segs, s)
	}
	return segs
}

// Bool reads a boolean query parameter. Only "true", in any case, is true.
func (r Route) Bool(key string) bool {
	return strings.EqualFold(r.Query.Get(key), "true")
}

// Int reads an integer query parameter, returning def when it is missing or
// malformed.
func (r Route) Int(key string, def int) int {
	v := r.Query.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// SessionRoute builds the route for kind and session id.
func SessionRoute(kind RouteKind, sessionID string) string {
	id := url.PathEscape(sessionID)
	switch kind {
	case RouteSession:
		return "/session/" + id
	case RouteModerator:
		return "/moderator/" + id
	case RouteOrganizer:
		return "/organizer/" + id
	case RouteSpeaker:
		return "/speaker/" + id
	case RouteSpeakerEmbed:
		return "/speaker/" + id + "/embed"
	case RouteAudience:
		return "/audience/" + id
	case RouteEventLanding:
		return "/event/" + id
	case RouteAdmin:
		return "/admin"
	}
	return "/"
}
