// Package admin provides HTTP handlers for platform administration.
package admin

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/notification"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// AdminController handles admin-only endpoints
type AdminController struct {
	DB         *database.DBinstanceStruct
	Dispatcher *notification.Dispatcher
	Recorder   *activity.Recorder
}

// NewAdminController creates a new instance of AdminController.
func NewAdminController(db *database.DBinstanceStruct, dispatcher *notification.Dispatcher, recorder *activity.Recorder) *AdminController {
	return &AdminController{
		DB:         db,
		Dispatcher: dispatcher,
		Recorder:   recorder,
	}
}

// employerWithStatus pairs an employer profile with its derived verification
// status, raw columns are never interpreted client-side.
type employerWithStatus struct {
	model.EmployerProfile
	DerivedStatus string `json:"derived_status"`
}

type verifyRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

// GetEmployers returns employer profiles with their derived verification status.
// @Summary Get employers based on given query
// @Description Only admin can access this endpoint
// @Description If no query is given, the server returns all employers
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param verify query string false "Space separated list of pending, approved, or rejected, case insensitive" example(pending rejected)
// @Success 200 {array} employerWithStatus
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/employers [get]
func (ac *AdminController) GetEmployers(c *gin.Context) {
	rawVerify := c.Query("verify")

	wanted := map[string]bool{}
	if rawVerify != "" {
		for _, v := range strings.Split(rawVerify, " ") {
			wanted[strings.ToLower(v)] = true
		}
	}

	var employers []model.EmployerProfile
	if err := ac.DB.Preload("User").Preload("JobPosts").Find(&employers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// the status lives behind the deriver, so filtering happens after the read
	resp := []employerWithStatus{}
	for _, e := range employers {
		status := e.DerivedStatus()
		if len(wanted) > 0 && !wanted[status] {
			continue
		}
		resp = append(resp, employerWithStatus{EmployerProfile: e, DerivedStatus: status})
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyEmployer approves or rejects an employer's verification request.
// @Summary Approve or reject employer verification
// @Description Only admin can access this endpoint
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID of the employer"
// @Param decision body verifyRequest true "approve or reject, with optional reason"
// @Success 200 {object} employerWithStatus "Employer with updated derived status"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "Employer not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/verify-employer/{id} [patch]
func (ac *AdminController) VerifyEmployer(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	employerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid employer id"})
		return
	}

	req := verifyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	employer := model.EmployerProfile{}
	if err := ac.DB.Where("user_id = ?", employerID).First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Employer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// Only the raw columns are written, readers go through the deriver.
	// Approve clears the legacy rejection flag so it cannot shadow the status.
	switch req.Decision {
	case "approve":
		employer.VerificationStatus = model.StatusApproved
		employer.VerificationRejected = []byte("false")
	case "reject":
		employer.VerificationStatus = model.StatusRejected
		employer.VerificationRejected = []byte("true")
	}

	if err := ac.DB.Model(&model.EmployerProfile{}).
		Where("user_id = ?", employerID).
		Updates(map[string]interface{}{
			"verification_status":   employer.VerificationStatus,
			"verification_rejected": employer.VerificationRejected,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update verification status: %s", err.Error()),
		})
		return
	}

	status := employer.DerivedStatus()

	ac.Recorder.Record(admin.ID, "employer_verification",
		fmt.Sprintf("%sd employer %q", strings.ToUpper(req.Decision[:1])+req.Decision[1:], employer.CompanyName),
		map[string]interface{}{
			"employerId": employerID.String(),
			"decision":   req.Decision,
			"reason":     req.Reason,
		})

	title := "Verification approved"
	message := "Your company has been verified. You can now post jobs."
	if req.Decision == "reject" {
		title = "Verification rejected"
		message = "Your verification request was rejected."
		if req.Reason != "" {
			message += " Reason: " + req.Reason
		}
	}
	// the decision is already committed, a lost notification never undoes it
	if _, err := ac.Dispatcher.System(employerID, title, message); err != nil {
		log.Printf("admin: notify employer %s failed: %v", employerID, err)
	}

	c.JSON(http.StatusOK, employerWithStatus{EmployerProfile: employer, DerivedStatus: status})
}

// ApproveRoleRequest resolves a pending multi-role request.
// @Summary Approve or reject a multi-role request
// @Description Only admin can access this endpoint
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID of the requester"
// @Param decision body verifyRequest true "approve or reject"
// @Success 200 {object} model.User "User with updated role"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, request body, or no pending request"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as admin"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /admin/role-request/{id} [patch]
func (ac *AdminController) ApproveRoleRequest(c *gin.Context) {
	admin, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid user id"})
		return
	}

	req := verifyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	user := model.User{}
	if err := ac.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Role != model.RoleMultiPending {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "User has no pending role request",
		})
		return
	}

	// While pending, ActiveRole holds the role the account started with.
	switch req.Decision {
	case "approve":
		user.Role = model.RoleMulti
	case "reject":
		user.Role = user.ActiveRole
	}

	if err := ac.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("role", user.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update role: %s", err.Error()),
		})
		return
	}

	ac.Recorder.Record(admin.ID, "role_request_resolved",
		fmt.Sprintf("%sd multi-role request of %s", strings.ToUpper(req.Decision[:1])+req.Decision[1:], user.Username),
		map[string]interface{}{
			"userId":   userID.String(),
			"decision": req.Decision,
		})

	title := "Multi-role request approved"
	message := "You can now act as both jobseeker and employer."
	if req.Decision == "reject" {
		title = "Multi-role request rejected"
		message = "Your multi-role request was rejected."
	}
	if _, err := ac.Dispatcher.System(userID, title, message); err != nil {
		log.Printf("admin: notify user %s failed: %v", userID, err)
	}

	c.JSON(http.StatusOK, user)
}
