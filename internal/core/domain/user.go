package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the raw role string carried by the auth session.
type Role string

const (
	RoleHost      Role = "host"
	RoleProvider  Role = "provider"
	RoleEmployee  Role = "employee"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// RoleBucket is the coarse-grained audience derived from a raw role, used for
// routing decisions. Unrecognized roles map to BucketUnknown.
type RoleBucket string

const (
	BucketHost     RoleBucket = "host"
	BucketProvider RoleBucket = "provider"
	BucketAdmin    RoleBucket = "admin"
	BucketUnknown  RoleBucket = "unknown"
)

// Bucket maps a raw role onto its audience bucket.
func (r Role) Bucket() RoleBucket {
	switch r {
	case RoleAdmin, RoleModerator:
		return BucketAdmin
	case RoleProvider, RoleEmployee:
		return BucketProvider
	case RoleHost:
		return BucketHost
	default:
		return BucketUnknown
	}
}

// User is the authenticated session identity. It is owned by the auth
// collaborator; this subsystem only reads it.
type User struct {
	ID              uuid.UUID
	Role            Role
	EmailVerified   bool
	EmailVerifiedAt *time.Time
}

// Verified reports whether the user's email has been confirmed, either via the
// boolean flag or an equivalent verification timestamp.
func (u *User) Verified() bool {
	return u.EmailVerified || u.EmailVerifiedAt != nil
}
