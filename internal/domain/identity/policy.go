package identity

import "strings"

// PolicyKind selects which constraint a Policy applies
type PolicyKind int

const (
	// PolicyAuthenticated requires only an approved, unblocked admin with a role
	PolicyAuthenticated PolicyKind = iota
	// PolicyRoleAllowList requires the admin's role to be one of Roles
	PolicyRoleAllowList
	// PolicyPermissionAllowList requires every permission in Permissions
	PolicyPermissionAllowList
	// PolicyAreaAction requires a permission for Area and Action
	PolicyAreaAction
	// PolicyAreaOnly requires any permission in Area
	PolicyAreaOnly
	// PolicyActionOnly requires a permission for Action in any area
	PolicyActionOnly
)

// String returns the kind name
func (k PolicyKind) String() string {
	switch k {
	case PolicyAuthenticated:
		return "authenticated"
	case PolicyRoleAllowList:
		return "role_allow_list"
	case PolicyPermissionAllowList:
		return "permission_allow_list"
	case PolicyAreaAction:
		return "area_action"
	case PolicyAreaOnly:
		return "area_only"
	case PolicyActionOnly:
		return "action_only"
	}
	return "unknown"
}

// Policy is the access requirement attached to an admin endpoint.
// Only the fields relevant to Kind are read.
type Policy struct {
	Kind        PolicyKind
	Roles       []string
	Permissions []string
	Area        string
	Action      string
}

// Authenticated returns a policy with no constraint beyond a usable account
func Authenticated() Policy {
	return Policy{Kind: PolicyAuthenticated}
}

// RequireRoles returns a role allow-list policy
func RequireRoles(roles ...string) Policy {
	return Policy{Kind: PolicyRoleAllowList, Roles: roles}
}

// RequirePermissions returns a policy that needs all named permissions
func RequirePermissions(names ...string) Policy {
	return Policy{Kind: PolicyPermissionAllowList, Permissions: names}
}

// RequireAreaAction returns an area and action policy
func RequireAreaAction(area, action string) Policy {
	return Policy{Kind: PolicyAreaAction, Area: area, Action: action}
}

// RequireArea returns an area-only policy
func RequireArea(area string) Policy {
	return Policy{Kind: PolicyAreaOnly, Area: area}
}

// RequireAction returns an action-only policy
func RequireAction(action string) Policy {
	return Policy{Kind: PolicyActionOnly, Action: action}
}

// String describes the policy for logs
func (p Policy) String() string {
	switch p.Kind {
	case PolicyRoleAllowList:
		return p.Kind.String() + "(" + strings.Join(p.Roles, ",") + ")"
	case PolicyPermissionAllowList:
		return p.Kind.String() + "(" + strings.Join(p.Permissions, ",") + ")"
	case PolicyAreaAction:
		return p.Kind.String() + "(" + p.Area + ":" + p.Action + ")"
	case PolicyAreaOnly:
		return p.Kind.String() + "(" + p.Area + ")"
	case PolicyActionOnly:
		return p.Kind.String() + "(" + p.Action + ")"
	}
	return p.Kind.String()
}

// Decision is the outcome of an authorization check
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	}
	return "unknown"
}

// Authorize decides whether admin satisfies policy. The admin must be
// loaded with its role and the role's permissions.
func Authorize(admin *Admin, policy Policy) Decision {
	if admin == nil || !admin.IsApproved || admin.IsBlocked || admin.Role == nil {
		return DenyUnauthenticated
	}
	role := admin.Role
	if role.IsSuperAdmin() {
		return Allow
	}

	var ok bool
	switch policy.Kind {
	case PolicyAuthenticated:
		ok = true
	case PolicyRoleAllowList:
		ok = len(policy.Roles) == 0
		for _, name := range policy.Roles {
			if role.Name == name {
				ok = true
				break
			}
		}
	case PolicyPermissionAllowList:
		ok = true
		for _, name := range policy.Permissions {
			if !role.HasPermissionNamed(name) {
				ok = false
				break
			}
		}
	case PolicyAreaAction:
		ok = role.HasAreaAction(policy.Area, policy.Action)
	case PolicyAreaOnly:
		ok = role.HasArea(policy.Area)
	case PolicyActionOnly:
		ok = role.HasAction(policy.Action)
	}
	if !ok {
		return DenyForbidden
	}
	return Allow
}

// AuthorizeAll evaluates policies in order and returns the first denial
func AuthorizeAll(admin *Admin, policies ...Policy) Decision {
	if len(policies) == 0 {
		return Authorize(admin, Authenticated())
	}
	for _, p := range policies {
		if d := Authorize(admin, p); d != Allow {
			return d
		}
	}
	return Allow
}
