package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EditableEmployerInfo is the part of an employer profile that the owner can edit
type EditableEmployerInfo struct {
	CompanyName string  `gorm:"type:text" json:"company_name"`
	Overview    string  `gorm:"type:text" json:"overview"`
	Industry    string  `gorm:"type:text" json:"industry"`
	Size        *string `gorm:"type:text" json:"size"`
	Website     *string `gorm:"type:text" json:"website"`
	Location    *string `gorm:"type:text" json:"location"`
}

// EmployerProfile extends User with employer specific fields.
//
// The two verification columns are raw legacy inputs, never read directly by
// business code. VerificationRejected has been written as bool, "true" and 1
// over the life of the data, VerificationStatus is a free string. Use
// DerivedStatus to get the canonical value.
type EmployerProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user"`

	EditableEmployerInfo

	VerificationRejected datatypes.JSON `gorm:"type:jsonb" json:"verification_rejected"`
	VerificationStatus   string         `gorm:"type:text" json:"verification_status"`

	LogoID *int `json:"logo_id"`
	Logo   File `gorm:"foreignKey:LogoID;references:ID" json:"-"`

	JobPosts []Job `gorm:"foreignKey:EmployerID;references:UserID" json:"job_posts"`
}
