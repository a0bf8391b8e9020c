// Package view decides which dashboard an identity sees.
//
// Resolve maps an identity (or none), a route and an optional admin-only
// role override onto one Variant, the inline Panels of the root route and
// the Capabilities the dashboard offers. It is pure: the same inputs always
// give the same Resolution, and nothing here talks to the backend.
package view
