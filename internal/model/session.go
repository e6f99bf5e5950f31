package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the persisted session record behind an access token. ActiveRole
// is the role the session is currently acting under, for multi-role accounts
// the identity layer rewrites it to match the page being viewed.
type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	ActiveRole string `gorm:"type:text" json:"active_role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
