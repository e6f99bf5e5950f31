// Package application maintains the application record and its mirror under
// the applicant as one atomic unit. Nothing else writes either side.
package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
)

// ErrNotFound is returned when the referenced application does not exist.
var ErrNotFound = errors.New("application not found")

// ApplicationData carries the applicant-supplied fields of a new application.
type ApplicationData struct {
	CoverLetter string `json:"cover_letter"`
	ResumeID    *int   `json:"resume_id"`
}

// Updater is the only writer of Application and JobseekerApplication rows.
type Updater struct {
	DB *gorm.DB
}

// NewUpdater creates a new Updater bound to the given database.
func NewUpdater(db *gorm.DB) *Updater {
	return &Updater{DB: db}
}

// CreateApplication creates the primary application record and its mirror
// under the applicant in one transaction, sharing one id. Partial creation is
// never observable: both rows commit or neither does.
func (u *Updater) CreateApplication(jobseekerID uuid.UUID, jobID uint, data ApplicationData) (uuid.UUID, error) {
	id := uuid.New()

	err := u.DB.Transaction(func(tx *gorm.DB) error {
		primary := model.Application{
			ID:          id,
			JobID:       jobID,
			JobseekerID: jobseekerID,
			Status:      model.ApplicationStatusPending,
			CoverLetter: data.CoverLetter,
			ResumeID:    data.ResumeID,
		}
		if err := tx.Create(&primary).Error; err != nil {
			return err
		}

		mirror := model.JobseekerApplication{
			ApplicationID: id,
			JobseekerID:   jobseekerID,
			JobID:         jobID,
			Status:        primary.Status,
			AppliedAt:     primary.AppliedAt,
		}
		return tx.Create(&mirror).Error
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("application transaction aborted: %w", err)
	}

	return id, nil
}

// UpdateApplicationStatus sets the status on the primary record and its
// mirror in one transaction. The status string is stored as given, no
// transition validation is performed.
//
// Legacy exception: when the primary record carries no owning jobseeker id
// the mirror write is skipped but the primary update still commits.
func (u *Updater) UpdateApplicationStatus(applicationID uuid.UUID, newStatus string) error {
	return u.DB.Transaction(func(tx *gorm.DB) error {
		var primary model.Application
		if err := tx.Where("id = ?", applicationID).First(&primary).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&model.Application{}).
			Where("id = ?", applicationID).
			Update("status", newStatus).Error; err != nil {
			return err
		}

		if primary.JobseekerID == uuid.Nil {
			// legacy record without an owner, no mirror to keep in sync
			return nil
		}

		return tx.Model(&model.JobseekerApplication{}).
			Where("application_id = ?", applicationID).
			Update("status", newStatus).Error
	})
}
