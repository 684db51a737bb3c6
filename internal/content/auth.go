package content

import (
	"fmt"
	"strings"

	"contentops/internal/services"
)

// Capability is a permission checked by workflow operations.
type Capability string

const (
	CapabilityEdit            Capability = "edit"
	CapabilitySubmit          Capability = "submit"
	CapabilityComment         Capability = "comment"
	CapabilityResolve         Capability = "resolve"
	CapabilityApprove         Capability = "approve"
	CapabilityRequestRevision Capability = "request_revision"
	CapabilityLock            Capability = "lock"
)

// Role groups capabilities.
type Role string

const (
	RoleEditor   Role = "editor"
	RoleProducer Role = "producer"
	RoleAdmin    Role = "admin"
	RoleClient   Role = "client"
)

var roleCapabilities = map[Role][]Capability{
	RoleEditor:   {CapabilityEdit, CapabilitySubmit, CapabilityComment, CapabilityResolve},
	RoleProducer: {CapabilityEdit, CapabilitySubmit, CapabilityComment, CapabilityResolve, CapabilityApprove, CapabilityRequestRevision, CapabilityLock},
	RoleAdmin:    {CapabilityEdit, CapabilitySubmit, CapabilityComment, CapabilityResolve, CapabilityApprove, CapabilityRequestRevision, CapabilityLock},
	RoleClient:   {CapabilityComment},
}

// AuthorizationContext identifies the caller of a workflow operation. It is
// passed explicitly so capabilities can be tested without a request pipeline.
type AuthorizationContext struct {
	UserID string
	Roles  []Role
}

// NewAuthorization builds a context from a user id and comma separated roles.
// Unknown roles are dropped.
func NewAuthorization(userID, roles string) AuthorizationContext {
	return AuthorizationContext{UserID: strings.TrimSpace(userID), Roles: ParseRoles(roles)}
}

// ParseRoles splits a comma separated role list, keeping known roles once each.
func ParseRoles(value string) []Role {
	var out []Role
	seen := make(map[Role]struct{})
	for _, part := range strings.Split(value, ",") {
		role := Role(strings.ToLower(strings.TrimSpace(part)))
		if _, known := roleCapabilities[role]; !known {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// Can reports whether any of the caller's roles grants capability.
func (a AuthorizationContext) Can(capability Capability) bool {
	for _, role := range a.Roles {
		for _, granted := range roleCapabilities[role] {
			if granted == capability {
				return true
			}
		}
	}
	return false
}

// Require returns ErrForbidden unless the caller is identified and holds capability.
func (a AuthorizationContext) Require(capability Capability) error {
	if a.UserID == "" {
		return services.Wrap(services.ErrForbidden, "content", "authorize", "caller is not identified", nil)
	}
	if !a.Can(capability) {
		return services.Wrap(
			services.ErrForbidden,
			"content",
			"authorize",
			fmt.Sprintf("user %s lacks %s permission", a.UserID, capability),
			nil,
		)
	}
	return nil
}

// IsClient reports whether the caller acts only as a client. Feedback from
// such callers is flagged as client feedback.
func (a AuthorizationContext) IsClient() bool {
	if len(a.Roles) == 0 {
		return false
	}
	for _, role := range a.Roles {
		if role != RoleClient {
			return false
		}
	}
	return true
}

// RoleNames renders roles for logs and API responses.
func (a AuthorizationContext) RoleNames() []string {
	out := make([]string, 0, len(a.Roles))
	for _, role := range a.Roles {
		out = append(out, string(role))
	}
	return out
}
