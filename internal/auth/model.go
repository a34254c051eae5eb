package auth

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Principal is the caller identified by a validated access token
type Principal struct {
	UserID string
	Email  string
	Role   string
}
