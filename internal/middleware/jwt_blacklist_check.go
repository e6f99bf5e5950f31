package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/auth"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// JwtBlacklistCheck is a middleware that checks if the JWT token is blacklisted.
// Must run after RequireAuth so the parsed claims are on the context.
func JwtBlacklistCheck(bl auth.JwtBlacklistStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, _ := ctx.Get("claims")
		claims, ok := raw.(*jwt.RegisteredClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token claims not available",
			})
			return
		}

		isBlacklisted, err := bl.IsBlacklisted(claims.ID)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
			})
			return
		}

		if isBlacklisted {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: "Token has been revoked",
			})
			return
		}

		ctx.Next()
	}
}
