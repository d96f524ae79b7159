package models

// Role is the kind of actor a Principal represents.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleCitizen    Role = "citizen"
	RoleDepartment Role = "department"
	RoleAdmin      Role = "admin"
)

// Known reports whether r is part of the role vocabulary.
func (r Role) Known() bool {
	switch r {
	case RoleAnonymous, RoleCitizen, RoleDepartment, RoleAdmin:
		return true
	}
	return false
}

// Principal is the actor behind a request. It is never mutated in place:
// approving a department signup issues a new Principal.
type Principal struct {
	ID           string `json:"user_id"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"department_id,omitempty"`
	Name         string `json:"name"`
}

// Authenticated reports whether p is a well-formed, signed-in principal.
// Partially populated principals are treated as unauthenticated.
func (p *Principal) Authenticated() bool {
	if p == nil || p.ID == "" || !p.Role.Known() || p.Role == RoleAnonymous {
		return false
	}
	if p.Role == RoleDepartment {
		return p.DepartmentID != ""
	}
	return p.DepartmentID == ""
}

// Anonymous returns the principal used for guests.
func Anonymous() Principal {
	return Principal{Role: RoleAnonymous, Name: "Guest"}
}

// Portal is a role-specific entry point of the client.
type Portal string

const (
	PortalHome       Portal = "home"
	PortalAuth       Portal = "auth"
	PortalCitizen    Portal = "citizen"
	PortalDepartment Portal = "department"
	PortalAdmin      Portal = "admin"
)

// PortalFor returns the dashboard a role lands on.
func PortalFor(r Role) Portal {
	switch r {
	case RoleCitizen:
		return PortalCitizen
	case RoleDepartment:
		return PortalDepartment
	case RoleAdmin:
		return PortalAdmin
	}
	return PortalAuth
}
