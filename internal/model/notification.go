package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification kinds
var (
	// NotificationApplicationReceived tells an employer someone applied
	NotificationApplicationReceived = "application_received"
	// NotificationInterviewScheduled tells a jobseeker an interview was scheduled
	NotificationInterviewScheduled = "interview_scheduled"
	// NotificationHired tells a jobseeker they got the job
	NotificationHired = "hired"
	// NotificationRejected tells a jobseeker their application was rejected
	NotificationRejected = "rejected"
	// NotificationSystem is a platform message (verification result, role approval)
	NotificationSystem = "system"
	// NotificationJobRelated is a generic message tied to a job post
	NotificationJobRelated = "job_related"
)

// Notification is one inbox entry. The dispatcher creates rows, the recipient
// toggles IsRead, nothing else touches them.
type Notification struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`

	Title   string `gorm:"type:text" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Type    string `gorm:"type:text;not null" json:"type"`

	IsRead bool `gorm:"default:false" json:"is_read"`

	Link          *string    `gorm:"type:text" json:"link,omitempty"`
	RelatedJobID  *uint      `json:"related_job,omitempty"`
	ApplicationID *uuid.UUID `gorm:"type:uuid" json:"application_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;->" json:"created_at"`
}
