package model

import (
	"time"

	"github.com/google/uuid"
)

// Application status values. The updater performs no transition validation,
// any string is accepted and stored, these are the values the UI uses.
var (
	// ApplicationStatusPending is the initial status of every application
	ApplicationStatusPending = "pending"
	// ApplicationStatusUnderReview means the employer opened the application
	ApplicationStatusUnderReview = "under_review"
	// ApplicationStatusInterview means an interview has been scheduled
	ApplicationStatusInterview = "interview_scheduled"
	// ApplicationStatusHired means the jobseeker got the job
	ApplicationStatusHired = "hired"
	// ApplicationStatusRejected means the application has been rejected
	ApplicationStatusRejected = "rejected"
)

// Application is the primary job application record.
//
// JobseekerID carries no FK constraint on purpose, legacy rows exist without
// an owner and must stay readable and updatable.
type Application struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	JobID uint `gorm:"not null;index" json:"job_id"`
	Job   Job  `gorm:"foreignKey:JobID;references:ID" json:"-"`

	JobseekerID uuid.UUID `gorm:"type:uuid;index" json:"jobseeker_id"`

	Status      string `gorm:"type:text" json:"status"`
	CoverLetter string `gorm:"type:text" json:"cover_letter"`

	ResumeID *int `json:"resume_id"`
	Resume   File `gorm:"foreignKey:ResumeID;references:ID" json:"-"`

	AppliedAt time.Time `gorm:"autoCreateTime" json:"applied_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// JobseekerApplication is the mirror of an Application kept under the
// applicant for scoped "my applications" reads. It shares the application's
// id and its Status must always equal the primary's, only the transactional
// updater writes either side.
type JobseekerApplication struct {
	ApplicationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"application_id"`
	JobseekerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"jobseeker_id"`

	JobID     uint      `gorm:"not null" json:"job_id"`
	Status    string    `gorm:"type:text" json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}
