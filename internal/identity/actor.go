// Package identity resolves who is acting, and under which role, from a
// persisted session record. The resolved Actor is an explicit value threaded
// through request handling, nothing else reads the session directly.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
)

// ErrAuthRequired is returned when no session record exists for the caller.
// Callers must surface a re-authentication prompt, never proceed silently.
var ErrAuthRequired = errors.New("authentication required")

// Actor is the resolved identity of the caller for one request
type Actor struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	// Role is the base role stored on the user record
	Role string `json:"role"`
	// ActiveRole is the session's acting role, only meaningful for multi-role accounts
	ActiveRole string `json:"active_role"`
}

// EffectiveRole resolves the role this actor acts under, multi-role accounts
// act under the session's active role.
func (a Actor) EffectiveRole() string {
	if a.Role == model.RoleMulti && a.ActiveRole != "" {
		return a.ActiveRole
	}
	return a.Role
}

// Resolve loads the session record and builds the Actor for this request.
// A missing session yields ErrAuthRequired.
func Resolve(db *gorm.DB, sessionID uuid.UUID) (Actor, error) {
	var session model.Session
	if err := db.Preload("User").Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrAuthRequired
		}
		return Actor{}, fmt.Errorf("failed to load session: %w", err)
	}

	return Actor{
		UserID:     session.UserID,
		SessionID:  session.ID,
		Role:       session.User.Role,
		ActiveRole: session.ActiveRole,
	}, nil
}

// RequireRole checks that the actor may act under requiredRole and returns the
// possibly updated actor.
//
// For multi-role accounts whose session is parked on the other role, the
// session (and the profile's default active role) is rewritten to requiredRole
// and persisted. This side effect on read is intentional: it keeps a
// multi-role session consistent with the page being viewed without an explicit
// "switch role" action, and the change is visible to the next Resolve call.
//
// multi-role-pending accounts fail every role gate until approved.
func RequireRole(db *gorm.DB, actor Actor, requiredRole string) (Actor, error) {
	switch actor.Role {
	case requiredRole:
		return actor, nil

	case model.RoleAdmin:
		// admin passes admin gates only, handled by the case above
		return actor, fmt.Errorf("role %q required", requiredRole)

	case model.RoleMulti:
		if requiredRole != model.RoleJobseeker && requiredRole != model.RoleEmployer {
			return actor, fmt.Errorf("role %q required", requiredRole)
		}
		if actor.ActiveRole == requiredRole {
			return actor, nil
		}

		// self-heal: park the session on the role this page requires
		if err := db.Model(&model.Session{}).
			Where("id = ?", actor.SessionID).
			Update("active_role", requiredRole).Error; err != nil {
			return actor, fmt.Errorf("failed to switch active role: %w", err)
		}
		if err := db.Model(&model.User{}).
			Where("id = ?", actor.UserID).
			Update("active_role", requiredRole).Error; err != nil {
			return actor, fmt.Errorf("failed to switch active role: %w", err)
		}

		actor.ActiveRole = requiredRole
		return actor, nil

	default:
		// includes multi-role-pending, which has no usable active role
		return actor, fmt.Errorf("role %q required", requiredRole)
	}
}
