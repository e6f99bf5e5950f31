package auth

import (
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"

	"github.com/google/uuid"
)

// CreateSession persists a new session record for the user and returns it.
// Multi-role accounts start on their last active role, defaulting to
// jobseeker when they never picked one.
func CreateSession(db *gorm.DB, user model.User) (model.Session, error) {
	activeRole := user.ActiveRole
	if user.Role == model.RoleMulti && activeRole == "" {
		activeRole = model.RoleJobseeker
	}

	session := model.Session{
		ID:         uuid.New(),
		UserID:     user.ID,
		ActiveRole: activeRole,
	}
	if err := db.Create(&session).Error; err != nil {
		return model.Session{}, err
	}
	return session, nil
}
