package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActivityRecord is the payload shared by every ledger. Ledger rows are
// append-only, nothing mutates or deletes them after insert.
type ActivityRecord struct {
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string         `gorm:"type:text;not null" json:"type"`
	Description string         `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;->" json:"created_at"`
}

// Activity is the global ledger, one row per recorded event
type Activity struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ActivityRecord
}

// UserActivity is the flat per-user ledger backing "my activity" views,
// same payload as the global entry
type UserActivity struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ActivityRecord
}

// JobseekerActivity is the role-scoped ledger for jobseeker activity. Name and
// email are denormalized at write time and never updated afterwards.
type JobseekerActivity struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ActivityRecord
	FirstName string `gorm:"type:text" json:"first_name"`
	LastName  string `gorm:"type:text" json:"last_name"`
	Email     string `gorm:"type:text" json:"email"`
}

// AdminActivity is the admin ledger, every action by an admin account lands
// here in addition to the global and per-user ledgers
type AdminActivity struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ActivityRecord
	AdminName  string `gorm:"type:text" json:"admin_name"`
	AdminEmail string `gorm:"type:text" json:"admin_email"`
}
