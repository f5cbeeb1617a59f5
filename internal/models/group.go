package models

import "time"

// Group is one of the three role groups. The group table is a projection
// derived from Profile.Role, not an independent source of truth; it exists so
// authorization checks can answer "is this account in group G" cheaply.
type Group struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Memberships []GroupMembership `gorm:"foreignKey:GroupID" json:"-"`
}

type GroupMembership struct {
	GroupID   uint64    `gorm:"primarykey" json:"group_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
