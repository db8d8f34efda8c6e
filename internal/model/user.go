package model

import "time"

// Role names form a closed set. They are seeded at startup and never
// modified afterwards.
const (
	RoleUser    = "USER"
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// AllRoles returns the full role enumeration in seeding order.
func AllRoles() []string {
	return []string{RoleUser, RoleAdmin, RoleManager}
}

// Role mirrors a row of the `roles` table.
type Role struct {
	ID   uint8  // roles.id
	Name string // roles.name (unique)
}

// User mirrors the `users` table plus the role names joined through
// `user_roles`. PasswordHash is a bcrypt hash and never appears in
// handler responses.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	Roles        []string  // role names via user_roles
	CreatedAt    time.Time // users.created_at (set once)
}

// HasRole reports whether the user carries the named role.
func (u User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}
