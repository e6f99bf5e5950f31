// Package notification writes inbox entries for targeted events.
package notification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
)

// Dispatcher writes notification inbox entries. Every dispatch is one
// non-transactional insert: no idempotency key, no retry, no delivery
// confirmation. Calling the same dispatch twice produces two notifications.
type Dispatcher struct {
	DB *gorm.DB
}

// NewDispatcher creates a new Dispatcher bound to the given database.
func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{DB: db}
}

func (d *Dispatcher) insert(n model.Notification) (uint, error) {
	if err := d.DB.Create(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to write notification: %w", err)
	}
	return n.ID, nil
}

// ApplicationReceived tells the employer that a jobseeker applied to their job.
func (d *Dispatcher) ApplicationReceived(recipientID uuid.UUID, applicationID uuid.UUID, jobID uint, jobTitle string, applicantName string) (uint, error) {
	link := fmt.Sprintf("/employer/applications/%s", applicationID)
	return d.insert(model.Notification{
		RecipientID:   recipientID,
		Type:          model.NotificationApplicationReceived,
		Title:         "New application received",
		Message:       fmt.Sprintf("%s applied to %s", applicantName, jobTitle),
		Link:          &link,
		RelatedJobID:  &jobID,
		ApplicationID: &applicationID,
	})
}

// InterviewScheduled tells the jobseeker an interview has been scheduled.
func (d *Dispatcher) InterviewScheduled(recipientID uuid.UUID, applicationID uuid.UUID, jobTitle string, companyName string, schedule string) (uint, error) {
	link := fmt.Sprintf("/jobseeker/applications/%s", applicationID)
	return d.insert(model.Notification{
		RecipientID:   recipientID,
		Type:          model.NotificationInterviewScheduled,
		Title:         "Interview scheduled",
		Message:       fmt.Sprintf("%s scheduled an interview for %s: %s", companyName, jobTitle, schedule),
		Link:          &link,
		ApplicationID: &applicationID,
	})
}

// Hired tells the jobseeker they got the job.
func (d *Dispatcher) Hired(recipientID uuid.UUID, applicationID uuid.UUID, jobTitle string, companyName string) (uint, error) {
	link := fmt.Sprintf("/jobseeker/applications/%s", applicationID)
	return d.insert(model.Notification{
		RecipientID:   recipientID,
		Type:          model.NotificationHired,
		Title:         "Congratulations, you're hired!",
		Message:       fmt.Sprintf("%s hired you for %s", companyName, jobTitle),
		Link:          &link,
		ApplicationID: &applicationID,
	})
}

// Rejected tells the jobseeker their application was rejected.
func (d *Dispatcher) Rejected(recipientID uuid.UUID, applicationID uuid.UUID, jobTitle string, companyName string) (uint, error) {
	link := fmt.Sprintf("/jobseeker/applications/%s", applicationID)
	return d.insert(model.Notification{
		RecipientID:   recipientID,
		Type:          model.NotificationRejected,
		Title:         "Application update",
		Message:       fmt.Sprintf("%s did not move forward with your application for %s", companyName, jobTitle),
		Link:          &link,
		ApplicationID: &applicationID,
	})
}

// System sends a platform message (verification result, role approval).
func (d *Dispatcher) System(recipientID uuid.UUID, title string, message string) (uint, error) {
	return d.insert(model.Notification{
		RecipientID: recipientID,
		Type:        model.NotificationSystem,
		Title:       title,
		Message:     message,
	})
}

// JobRelated sends a generic message tied to a job post.
func (d *Dispatcher) JobRelated(recipientID uuid.UUID, jobID uint, title string, message string) (uint, error) {
	link := fmt.Sprintf("/jobs/%d", jobID)
	return d.insert(model.Notification{
		RecipientID:  recipientID,
		Type:         model.NotificationJobRelated,
		Title:        title,
		Message:      message,
		Link:         &link,
		RelatedJobID: &jobID,
	})
}
