package user

// Role comes from the external auth service's access token. Sellers issue
// tickets at points of sale; admins additionally manage reporting caches.
type Role string

const (
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSeller, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}
