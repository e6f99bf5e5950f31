package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EditableJobInfo is the part of a job post that can be edited
type EditableJobInfo struct {
	Title    string         `gorm:"type:text" json:"title"`
	Desc     string         `gorm:"type:text" json:"desc"`
	Req      string         `gorm:"type:text" json:"req"`
	ExpLvl   string         `gorm:"type:text" json:"exp_lvl"`
	Location string         `gorm:"type:text" json:"location"`
	Type     string         `gorm:"type:text" json:"type"`
	Salary   string         `gorm:"type:text" json:"salary"`
	Tags     pq.StringArray `gorm:"type:text[]" json:"tags"`
	Expiring *time.Time     `gorm:"type:timestamp" json:"expiring,omitempty"`
}

// Job is the gorm model for a job post.
//
// EmployerID is the canonical owner column. Older rows were written with the
// owner under company_id instead, AfterFind folds those into EmployerID so
// readers never see the split. New rows always write employer_id.
type Job struct {
	ID         uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EmployerID uuid.UUID `gorm:"type:uuid;index;<-:create" json:"employer_id"`

	LegacyCompanyID *uuid.UUID `gorm:"column:company_id;type:uuid" json:"-"`

	EditableJobInfo

	PostTime time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"post_time"`

	Applications []Application `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"applications"`
}

// AfterFind normalizes legacy rows that carry the owner under company_id.
func (j *Job) AfterFind(_ *gorm.DB) error {
	if j.EmployerID == uuid.Nil && j.LegacyCompanyID != nil {
		j.EmployerID = *j.LegacyCompanyID
	}
	return nil
}

// JobResponse is the response struct for a job post with the caller's
// application state folded in
type JobResponse struct {
	ID         uint      `json:"id"`
	EmployerID uuid.UUID `json:"employer_id"`
	PostTime   time.Time `json:"post_time"`
	UserApply  bool      `json:"user_apply"`
	EditableJobInfo
}

// ToJobResponse converts a Job to a JobResponse for the given user
func (j *Job) ToJobResponse(user User) (JobResponse, error) {

	var resp JobResponse

	b, err := json.Marshal(j)
	if err != nil {
		return resp, err
	}

	if err := json.Unmarshal(b, &resp); err != nil {
		return resp, err
	}

	userApply := false

	if user.EffectiveRole() == RoleJobseeker {
		for _, application := range j.Applications {
			if application.JobseekerID == user.ID {
				userApply = true
				break
			}
		}
	}
	resp.UserApply = userApply

	return resp, nil
}
