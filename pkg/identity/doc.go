// Package identity provides authenticated identity management for Kantoor requests.
//
// This package separates the authenticated identity from session handling.
// An Identity combines the session's user (org, role, capabilities) with
// request-specific context such as the client IP.
//
// # Basic Usage
//
//	// Create identity from a loaded user row
//	id := identity.FromUser(user)
//
//	// Add request context
//	id.WithRemoteIP(clientIP)
//
//	// Store in request context
//	ctx = identity.Set(ctx, id)
//
//	// Retrieve from context
//	id, ok := identity.Get(ctx)
//
// Capability checks run against the role's capability strings; the org:admin
// capability implies every other one.
package identity
