package models

import "time"

type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

// ParseRole maps a request string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Profile carries the authoritative role for an account plus the optional
// admin delegation used for scoping. Exactly one per user, created when the
// account is created.
type Profile struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	UserID          uint64    `gorm:"uniqueIndex;not null" json:"user_id"`
	Role            Role      `gorm:"type:varchar(20);not null;default:'USER';index" json:"role"`
	AssignedAdminID *uint64   `gorm:"index" json:"assigned_admin_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	User          User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	AssignedAdmin *User `gorm:"foreignKey:AssignedAdminID" json:"assigned_admin,omitempty"`
}
