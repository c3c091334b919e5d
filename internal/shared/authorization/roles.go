package authorization

// UserRole is the role carried in access tokens and used as the casbin subject.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// ParseUserRole falls back to RoleMember for unknown values.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleMember
}

// RoleFor derives the role of a member from its admin flag.
func RoleFor(isAdmin bool) UserRole {
	if isAdmin {
		return RoleAdmin
	}
	return RoleMember
}
