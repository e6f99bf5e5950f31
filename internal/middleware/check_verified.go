package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// CheckVerifiedEmployer blocks employer actions until an admin approved the
// employer. Admin passes through. The status is derived from the raw legacy
// fields on every request, never read from them directly.
func CheckVerifiedEmployer(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, err := ExtractActor(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "User information not provided",
			})
			return
		}

		if actor.Role == model.RoleAdmin {
			ctx.Next()
			return
		}

		var profile model.EmployerProfile
		if err := db.Where("user_id = ?", actor.UserID).First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
					Error: "Only employers can access this endpoint",
				})
				return
			}
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve employer information: %s", err.Error()),
			})
			return
		}

		if status := profile.DerivedStatus(); status != model.StatusApproved {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: fmt.Sprintf("Employer verification is %s, only approved employers can access this endpoint", status),
			})
			return
		}

		ctx.Next()
	}
}
