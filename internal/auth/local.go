// Package auth contains handler relate to log in and create user account
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB       *database.DBinstanceStruct
	Recorder *activity.Recorder
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct, recorder *activity.Recorder) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:       db,
		Recorder: recorder,
	}
}

type registerInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=jobseeker employer"`
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LocalRegisterHandler function handles local registration by receiving username and password
// @Summary Handles local registration by receiving username and password
// @Description Username must not already exist and password must longer or equal to 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'jobseeker' or 'employer'"
// @Success 201 {object} model.JobseekerResponse "If role is jobseeker"
// @Success 201 {object} model.EmployerResponse "If role is employer"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username, password, and Role (Only 'jobseeker' or 'employer') must be provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	switch info.Role {
	case model.RoleJobseeker:
		profile := model.JobseekerProfile{
			User: model.User{
				Username: info.Username,
				Password: hashedPassword,
				Role:     model.RoleJobseeker,
			},
		}
		if err := lh.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
			})
			return
		}

		accessToken, err := lh.openSession(profile.User)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
			})
			return
		}

		lh.Recorder.Record(profile.UserID, "user_registered", "Registered as jobseeker", nil)

		c.JSON(http.StatusCreated, model.JobseekerResponse{
			User:        profile,
			AccessToken: accessToken,
		})
	case model.RoleEmployer:
		profile := model.EmployerProfile{
			User: model.User{
				Username: info.Username,
				Password: hashedPassword,
				Role:     model.RoleEmployer,
			},
			VerificationStatus: model.StatusPending,
		}
		if err := lh.DB.Create(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
			})
			return
		}

		accessToken, err := lh.openSession(profile.User)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
			})
			return
		}

		lh.Recorder.Record(profile.UserID, "user_registered", "Registered as employer", nil)

		c.JSON(http.StatusCreated, model.EmployerResponse{
			User:        profile,
			AccessToken: accessToken,
		})
	default:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Role '%s' not allowed", info.Role),
		})
	}
}

// LocalLoginHandler function handles local login by receiving username and password
// @Summary Handles local login by receiving username and password
// @Description Username must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.JobseekerResponse "If role is jobseeker"
// @Success 200 {object} model.EmployerResponse "If role is employer"
// @Success 200 {object} model.AdminResponse "If role is admin or multi"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Username not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		LogAuthAttempt("warning", "Local", "Fail", info.Username, "wrong password")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	accessToken, err := lh.openSession(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt("info", "Local", "Success", user.ID.String(), "")
	lh.Recorder.Record(user.ID, "user_login", "Logged in", map[string]interface{}{
		"activeRole": user.ActiveRole,
	})

	switch user.EffectiveRole() {
	case model.RoleJobseeker:
		var profile model.JobseekerProfile
		if err := lh.DB.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusOK, model.JobseekerResponse{User: profile, AccessToken: accessToken})

	case model.RoleEmployer:
		var profile model.EmployerProfile
		if err := lh.DB.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusOK, model.EmployerResponse{User: profile, AccessToken: accessToken})

	default:
		c.JSON(http.StatusOK, model.AdminResponse{User: user, AccessToken: accessToken})
	}
}

// openSession persists a session for the user and returns the signed token.
func (lh *LocalAuthHandler) openSession(user model.User) (string, error) {
	session, err := CreateSession(lh.DB.DB, user)
	if err != nil {
		return "", err
	}
	accessToken, _, err := GenerateStandardToken(session.ID)
	return accessToken, err
}
