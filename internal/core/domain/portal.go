package domain

// Portal is one of the three role-segregated application surfaces, each
// potentially served from its own subdomain.
type Portal string

const (
	PortalHost     Portal = "host"
	PortalProvider Portal = "provider"
	PortalAdmin    Portal = "admin"
)

// RolesForPortal returns the roles allowed to render the given portal.
func RolesForPortal(p Portal) []Role {
	switch p {
	case PortalAdmin:
		return []Role{RoleAdmin, RoleModerator}
	case PortalProvider:
		return []Role{RoleProvider, RoleEmployee}
	case PortalHost:
		return []Role{RoleHost}
	default:
		return nil
	}
}

// HomePortal returns the portal a bucket belongs on, used when a verified user
// lands on a portal their role is not allowed to render.
func (b RoleBucket) HomePortal() (Portal, bool) {
	switch b {
	case BucketAdmin:
		return PortalAdmin, true
	case BucketProvider:
		return PortalProvider, true
	case BucketHost:
		return PortalHost, true
	default:
		return "", false
	}
}
