package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// EditableJobseekerInfo is the part of a jobseeker profile that the owner can edit
type EditableJobseekerInfo struct {
	FirstName string         `gorm:"type:text" json:"first_name"`
	LastName  string         `gorm:"type:text" json:"last_name"`
	Headline  *string        `gorm:"type:text" json:"headline"`
	Location  *string        `gorm:"type:text" json:"location"`
	Skills    pq.StringArray `gorm:"type:text[]" json:"skills"`
}

// JobseekerProfile extends User with jobseeker specific fields
type JobseekerProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`

	EditableJobseekerInfo

	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`
}
