package domain

// Role is kept as an open string: any value is stored as given.
// Only RoleAdmin carries meaning for the access gate.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultRole is assigned on create when no role is supplied.
const DefaultRole = RoleUser

func IsAdmin(role string) bool {
	return role == string(RoleAdmin)
}
