package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/identity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// CheckRole will protect endpoint from user that is not a specific roles.
//
// A multi-role account whose session is parked on the wrong side is switched
// onto the required role here (the session record is rewritten), so visiting
// an employer page while acting as jobseeker just works. The healed actor
// replaces the one stored by RequireAuth.
func CheckRole(db *database.DBinstanceStruct, roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, err := ExtractActor(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "User information not provided",
			})
			return
		}

		// already acting under an allowed role, nothing to heal
		if utilities.Contains(roles, actor.Role) ||
			(actor.Role == model.RoleMulti && utilities.Contains(roles, actor.ActiveRole)) {
			return
		}

		for _, role := range roles {
			healed, err := identity.RequireRole(db.DB, actor, role)
			if err != nil {
				continue
			}
			ctx.Set("actor", healed)
			if user, uerr := utilities.ExtractUser(ctx); uerr == nil {
				user.ActiveRole = healed.ActiveRole
				ctx.Set("user", user)
			}
			return
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "User doesn't have permission to access",
		})
	}
}
