// Package profile provides HTTP handlers for jobseeker and employer profiles.
package profile

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

// ProfileController handles profile related endpoints
type ProfileController struct {
	DB       *database.DBinstanceStruct
	Recorder *activity.Recorder
}

// NewProfileController creates a new instance of ProfileController.
func NewProfileController(db *database.DBinstanceStruct, recorder *activity.Recorder) *ProfileController {
	return &ProfileController{
		DB:       db,
		Recorder: recorder,
	}
}

// GetMyJobseekerProfile returns the caller's jobseeker profile.
// @Summary Get own jobseeker profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.JobseekerProfile
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobseeker/profile [get]
func (pc *ProfileController) GetMyJobseekerProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	seeker := model.JobseekerProfile{}
	if err := pc.DB.Preload("User").Where("user_id = ?", user.ID.String()).First(&seeker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Jobseeker profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, seeker)
}

// EditMyJobseekerProfile updates the caller's jobseeker profile.
// @Summary Edit own jobseeker profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body model.EditableJobseekerInfo true "Profile fields to update"
// @Success 200 {object} model.JobseekerProfile
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobseeker/profile [patch]
func (pc *ProfileController) EditMyJobseekerProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	seeker := model.JobseekerProfile{}
	if err := pc.DB.Preload("User").Where("user_id = ?", user.ID.String()).First(&seeker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Jobseeker profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	incoming := model.EditableJobseekerInfo{}
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	utilities.MergeNonEmpty(&seeker.EditableJobseekerInfo, &incoming)

	if err := pc.DB.Save(&seeker).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	pc.Recorder.Record(user.ID, "profile_updated", "Updated jobseeker profile", map[string]interface{}{
		"activeRole": model.RoleJobseeker,
	})

	c.JSON(http.StatusOK, seeker)
}

// GetMyEmployerProfile returns the caller's employer profile.
// @Summary Get own employer profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.EmployerProfile
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /employer/profile [get]
func (pc *ProfileController) GetMyEmployerProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	employer := model.EmployerProfile{}
	if err := pc.DB.Preload("User").Preload("JobPosts").Where("user_id = ?", user.ID.String()).First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Employer profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, employer)
}

// EditMyEmployerProfile updates the caller's employer profile.
// @Summary Edit own employer profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body model.EditableEmployerInfo true "Profile fields to update"
// @Success 200 {object} model.EmployerProfile
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /employer/profile [patch]
func (pc *ProfileController) EditMyEmployerProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	employer := model.EmployerProfile{}
	if err := pc.DB.Preload("User").Where("user_id = ?", user.ID.String()).First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Employer profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	incoming := model.EditableEmployerInfo{}
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	utilities.MergeNonEmpty(&employer.EditableEmployerInfo, &incoming)

	// verification columns are not editable here, Save touches the loaded row
	// with its raw columns unchanged
	if err := pc.DB.Save(&employer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	pc.Recorder.Record(user.ID, "profile_updated", "Updated employer profile", map[string]interface{}{
		"activeRole": model.RoleEmployer,
	})

	c.JSON(http.StatusOK, employer)
}

type roleRequestBody struct {
	Jobseeker *model.EditableJobseekerInfo `json:"jobseeker,omitempty"`
	Employer  *model.EditableEmployerInfo  `json:"employer,omitempty"`
}

// RequestMultiRole asks for the second role. The account is parked on
// multi-role-pending until an admin resolves the request, ActiveRole keeps
// the role the account started with so a rejection can restore it.
// @Summary Request multi-role access
// @Description Jobseekers request the employer role and vice versa, the body must carry the missing profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param profile body roleRequestBody true "Profile information for the requested role"
// @Success 200 {object} model.User "Account now pending approval"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or request already pending"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Role cannot request another role"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/role-request [post]
func (pc *ProfileController) RequestMultiRole(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.Role != model.RoleJobseeker && user.Role != model.RoleEmployer {
		if user.Role == model.RoleMultiPending {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "A role request is already pending",
			})
			return
		}
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only jobseeker or employer accounts can request another role",
		})
		return
	}

	body := roleRequestBody{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if user.Role == model.RoleJobseeker && body.Employer == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Employer profile information required"})
		return
	}
	if user.Role == model.RoleEmployer && body.Jobseeker == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Jobseeker profile information required"})
		return
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case model.RoleJobseeker:
			employer := model.EmployerProfile{
				UserID:               user.ID,
				EditableEmployerInfo: *body.Employer,
			}
			if err := tx.Create(&employer).Error; err != nil {
				return err
			}
		case model.RoleEmployer:
			seeker := model.JobseekerProfile{
				UserID:                user.ID,
				EditableJobseekerInfo: *body.Jobseeker,
			}
			if err := tx.Create(&seeker).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Updates(map[string]interface{}{
				"role":        model.RoleMultiPending,
				"active_role": user.Role,
			}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to submit role request: %s", err.Error()),
		})
		return
	}

	pc.Recorder.Record(user.ID, "role_request_submitted", "Requested multi-role access", map[string]interface{}{
		"currentRole": user.Role,
	})

	user.ActiveRole = user.Role
	user.Role = model.RoleMultiPending
	c.JSON(http.StatusOK, user)
}
