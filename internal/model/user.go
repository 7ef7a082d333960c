package model

// Role is the privilege level of an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an operator account.  Only the bcrypt hash of the password is
// kept; the plain password never leaves the auth package.
//
// Fields:
//  Username     – unique account key.
//  PasswordHash – bcrypt hash of the password.
//  Role         – USER or ADMIN.
type User struct {
	Username     string `json:"username"` // users.username
	PasswordHash string `json:"-"`        // users.password_hash
	Role         Role   `json:"role"`     // users.role
}

// Privileged reports whether the account may run administrative operations.
func (u User) Privileged() bool { return u.Role == RoleAdmin }
