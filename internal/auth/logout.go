package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// LogoutController handles user logout by blacklisting JWT tokens and
// deleting the backing session record.
type LogoutController struct {
	DB             *database.DBinstanceStruct
	BlacklistStore JwtBlacklistStore
}

// NewLogoutController creates a new instance of LogoutController
func NewLogoutController(db *database.DBinstanceStruct, blacklistStore JwtBlacklistStore) *LogoutController {
	return &LogoutController{
		DB:             db,
		BlacklistStore: blacklistStore,
	}
}

// LogoutHandler blacklists the presented token and removes its session.
// @Summary Log out the current session
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} utilities.MessageResponse
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /auth/logout [post]
func (lc *LogoutController) LogoutHandler(c *gin.Context) {

	tokenString, err := utilities.ExtractBearerToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := ValidatedToken(tokenString)
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid access token"})
		return
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Invalid token claims"})
		return
	}

	if claims.ExpiresAt != nil {
		if err := lc.BlacklistStore.AddToBlacklist(claims.ID, claims.ExpiresAt.Time); err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to blacklist token: %s", err.Error()),
			})
			return
		}
	}

	if sessionID, err := uuid.Parse(claims.Subject); err == nil {
		// best effort, a dangling session row is harmless once the token is dead
		_ = lc.DB.Delete(&model.Session{}, "id = ?", sessionID).Error
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Logged out"})
}
