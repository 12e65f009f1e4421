package model

// Role is the small enumeration GitLab access levels collapse into.
type Role string

const (
	RoleGuest      Role = "guest"
	RoleReporter   Role = "reporter"
	RoleDeveloper  Role = "developer"
	RoleMaintainer Role = "maintainer"
	RoleOwner      Role = "owner"
)

// GitLab numeric access levels.
const (
	AccessGuest      = 10
	AccessReporter   = 20
	AccessDeveloper  = 30
	AccessMaintainer = 40
	AccessOwner      = 50
)

// RoleFromAccessLevel maps a GitLab access level to a Role. Unknown levels
// fall back to guest.
func RoleFromAccessLevel(level int) Role {
	switch level {
	case AccessReporter:
		return RoleReporter
	case AccessDeveloper:
		return RoleDeveloper
	case AccessMaintainer:
		return RoleMaintainer
	case AccessOwner:
		return RoleOwner
	default:
		return RoleGuest
	}
}

// RoleName is the display label used in the members list.
func RoleName(level int) string {
	switch level {
	case AccessGuest:
		return "Guest"
	case AccessReporter:
		return "Reporter"
	case AccessDeveloper:
		return "Developer"
	case AccessMaintainer:
		return "Maintainer"
	case AccessOwner:
		return "Owner"
	default:
		return "Unknown"
	}
}

// Member is a read-only mirror of GitLab project membership.
type Member struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	AccessLevel int    `json:"access_level"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// MemberView is a member as rendered in the members list.
type MemberView struct {
	Member
	Role    string `json:"role"`
	Active  bool   `json:"active"`
	Creator bool   `json:"creator"`
}
