package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants for User.Role
var (
	// RoleJobseeker marks an account that applies to jobs
	RoleJobseeker = "jobseeker"
	// RoleEmployer marks an account that posts jobs
	RoleEmployer = "employer"
	// RoleAdmin marks a platform administrator
	RoleAdmin = "admin"
	// RoleMulti marks an account approved to act as both jobseeker and employer,
	// the acting role is carried in ActiveRole / Session.ActiveRole
	RoleMulti = "multi"
	// RoleMultiPending marks an account waiting for admin approval of a second
	// role, it has no usable active role until approved
	RoleMultiPending = "multi-role-pending"
)

// User is the base account record shared by every role
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username string    `gorm:"uniqueIndex" json:"username"`
	Password string    `json:"-"`
	GoogleID string    `json:"-"`

	Email *string `json:"email"`
	Tel   *string `json:"tel"`

	Role string `gorm:"type:text;not null" json:"role"`
	// ActiveRole is only meaningful when Role is RoleMulti
	ActiveRole string `gorm:"type:text" json:"active_role"`

	ProfilePicture string `json:"profile_picture"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EffectiveRole resolves the role this user acts under. Multi-role accounts
// act under their active role, everyone else under their base role.
func (u *User) EffectiveRole() string {
	if u.Role == RoleMulti && u.ActiveRole != "" {
		return u.ActiveRole
	}
	return u.Role
}
