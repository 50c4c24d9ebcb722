package identity

import (
	"context"
	"net"

	"github.com/google/uuid"

	"github.com/kantoorhq/kantoor/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request.
// It combines the session's user with request-specific context.
type Identity struct {
	UserID      uuid.UUID
	OrgID       uuid.UUID
	Email       string
	DisplayName string
	RoleName    string
	PersonID    *uuid.UUID

	// Capabilities granted by the user's role. org:admin implies all.
	Capabilities []string

	// Request context
	RemoteIP net.IP
}

// FromUser creates an Identity from a user row with its role preloaded.
func FromUser(user *model.User) *Identity {
	id := &Identity{
		UserID:      user.ID,
		OrgID:       user.OrgID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PersonID:    user.PersonID,
	}
	if user.Role != nil {
		id.RoleName = user.Role.Name
		id.Capabilities = append(id.Capabilities, user.Role.Capabilities...)
	}
	return id
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// HasCapability reports whether the identity holds the capability.
// org:admin grants everything.
func (i *Identity) HasCapability(capability string) bool {
	for _, c := range i.Capabilities {
		if c == model.CapOrgAdmin || c == capability {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity holds org:admin.
func (i *Identity) IsAdmin() bool {
	return i.HasCapability(model.CapOrgAdmin)
}

// ClientIP returns the remote IP as a string, or "" when unknown.
func (i *Identity) ClientIP() string {
	if i.RemoteIP == nil {
		return ""
	}
	return i.RemoteIP.String()
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
