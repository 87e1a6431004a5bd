package model

import "time"

// Authorities known by the route guards.
const (
	RoleOperator = "ROLE_OPERATOR"
	RoleAdmin    = "ROLE_ADMIN"
)

// Role is a granted authority such as ROLE_ADMIN.
type Role struct {
	ID        int64  `gorm:"primaryKey"`
	Authority string `gorm:"uniqueIndex;not null"`
}

func (Role) TableName() string { return "roles" }

// User is an account allowed to manage the catalog.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	FirstName    string `gorm:"not null"`
	LastName     string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Roles []Role `gorm:"many2many:user_roles;"`
}

func (User) TableName() string { return "users" }

// Authorities lists the role names granted to the user.
func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Authority)
	}
	return out
}
