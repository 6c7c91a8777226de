package models

import "time"

// Role identifies what an account may do. It is fixed at registration.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Account is a registered user stored in the accounts table.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AccountInfo is the public projection of an account.
type AccountInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Info returns the public projection of the account.
func (a *Account) Info() AccountInfo {
	return AccountInfo{ID: a.ID, Username: a.Username, Role: a.Role}
}
