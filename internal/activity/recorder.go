// Package activity fans a domain event out to the activity ledgers.
package activity

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
)

// Recorder writes activity ledger entries
type Recorder struct {
	DB *gorm.DB
}

// NewRecorder creates a new Recorder bound to the given database.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// Record fans one event out to the ledgers: the global ledger, the flat
// per-user ledger, and when the effective role warrants it, the jobseeker and
// admin ledgers. Fire-and-forget: failures are logged and swallowed, steps
// already written stay written, and the caller's action is never aborted.
//
// There is no dedup key, calling Record twice for one logical event writes
// duplicate entries. Callers call at most once per event.
func (r *Recorder) Record(userID uuid.UUID, activityType string, description string, metadata map[string]interface{}) {
	if err := r.record(userID, activityType, description, metadata); err != nil {
		log.Printf("activity: partial fan-out for %s (%s): %v", activityType, userID, err)
	}
}

func (r *Recorder) record(userID uuid.UUID, activityType string, description string, metadata map[string]interface{}) error {
	payload := model.ActivityRecord{
		UserID:      userID,
		Type:        activityType,
		Description: description,
	}
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		payload.Metadata = b
	}

	// 1. global ledger
	if err := r.DB.Create(&model.Activity{ActivityRecord: payload}).Error; err != nil {
		return fmt.Errorf("global ledger write failed: %w", err)
	}

	// 2. flat per-user ledger, same payload
	if err := r.DB.Create(&model.UserActivity{ActivityRecord: payload}).Error; err != nil {
		return fmt.Errorf("user ledger write failed: %w", err)
	}

	// 3. point read of the actor's profile for role-scoped fan-out
	var user model.User
	if err := r.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return fmt.Errorf("profile read failed: %w", err)
	}

	role := effectiveRole(metadata, user)

	// Only jobseeker activity gets a role-scoped entry. There is no employer
	// equivalent, that asymmetry matches the product as shipped.
	if role == model.RoleJobseeker {
		entry := model.JobseekerActivity{ActivityRecord: payload}
		// name and email are captured at write time, later profile edits do
		// not touch old entries
		var seeker model.JobseekerProfile
		if err := r.DB.Where("user_id = ?", userID).First(&seeker).Error; err == nil {
			entry.FirstName = seeker.FirstName
			entry.LastName = seeker.LastName
		}
		if user.Email != nil {
			entry.Email = *user.Email
		}
		if err := r.DB.Create(&entry).Error; err != nil {
			return fmt.Errorf("jobseeker ledger write failed: %w", err)
		}
	}

	// The admin ledger keys off the base role, not the effective role.
	if user.Role == model.RoleAdmin {
		entry := model.AdminActivity{ActivityRecord: payload}
		entry.AdminName = user.Username
		if user.Email != nil {
			entry.AdminEmail = *user.Email
		}
		if err := r.DB.Create(&entry).Error; err != nil {
			return fmt.Errorf("admin ledger write failed: %w", err)
		}
	}

	return nil
}

// effectiveRole resolves the role used for fan-out: explicit metadata first,
// then the profile's active role, then the base role.
func effectiveRole(metadata map[string]interface{}, user model.User) string {
	if metadata != nil {
		if v, ok := metadata["activeRole"].(string); ok && v != "" {
			return v
		}
	}
	if user.ActiveRole != "" {
		return user.ActiveRole
	}
	return user.Role
}
