// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	appsvc "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/application"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/notification"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB         *database.DBinstanceStruct
	Updater    *appsvc.Updater
	Dispatcher *notification.Dispatcher
	Recorder   *activity.Recorder
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(db *database.DBinstanceStruct, updater *appsvc.Updater, dispatcher *notification.Dispatcher, recorder *activity.Recorder) *ApplicationController {
	return &ApplicationController{
		DB:         db,
		Updater:    updater,
		Dispatcher: dispatcher,
		Recorder:   recorder,
	}
}

type applyRequest struct {
	JobID uint `json:"job_id" binding:"required"`
	appsvc.ApplicationData
}

type statusRequest struct {
	Status   string `json:"status" binding:"required"`
	Schedule string `json:"schedule"`
}

// ApplicationHandler handles the creation of a new job application by a jobseeker.
// @Summary Create job application
// @Description Only jobseekers can access this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param application body applyRequest true "Application information"
// @Success 201 {object} model.Application "Successfully apply to job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, request body, or already applied"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as jobseeker"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application [post]
func (j *ApplicationController) ApplicationHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	req := applyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	// The job must exist, its title and owner feed the employer notification
	job := model.Job{}
	if err := j.DB.Where("id = ?", req.JobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	// Prevent duplicate applications to the same job post
	existing := model.Application{}
	if err := j.DB.
		Where("jobseeker_id = ? AND job_id = ?", user.ID, req.JobID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "You have already applied to this job post",
		})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to check existing application",
		})
		return
	}

	applicationID, err := j.Updater.CreateApplication(user.ID, req.JobID, req.ApplicationData)
	if err != nil {
		var pqErr *pgconn.PgError
		// a foreign key violation means the resume id is invalid
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid ResumeID: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	// side effects after the transaction, neither failure rolls it back
	j.Recorder.Record(user.ID, "application_submitted", fmt.Sprintf("Applied to %q", job.Title), map[string]interface{}{
		"jobId":         job.ID,
		"applicationId": applicationID.String(),
		"activeRole":    model.RoleJobseeker,
	})

	if _, err := j.Dispatcher.ApplicationReceived(job.EmployerID, applicationID, job.ID, job.Title, applicantName(j.DB, user)); err != nil {
		log.Printf("application: notify employer %s failed: %v", job.EmployerID, err)
	}

	created := model.Application{}
	if err := j.DB.Where("id = ?", applicationID).First(&created).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve created application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// applicantName resolves the display name used in employer notifications,
// falling back to the username when no jobseeker profile exists.
func applicantName(db *database.DBinstanceStruct, user model.User) string {
	var seeker model.JobseekerProfile
	if err := db.Where("user_id = ?", user.ID).First(&seeker).Error; err == nil {
		name := seeker.FirstName
		if seeker.LastName != "" {
			name += " " + seeker.LastName
		}
		if name != "" {
			return name
		}
	}
	return user.Username
}

// MyApplications returns the caller's applications from the jobseeker-scoped
// mirror, never from the primary table.
// @Summary Get own applications
// @Description Only jobseekers can access this endpoint
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobseekerApplication "Return the caller's applications"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as jobseeker"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/my [get]
func (j *ApplicationController) MyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applications := []model.JobseekerApplication{}
	if err := j.DB.
		Where("jobseeker_id = ?", user.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// JobApplications returns every application for one job post.
// @Summary Get applications for a job post
// @Description Only the employer that owns the post or an admin has access to this endpoint
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job post"
// @Success 200 {array} model.Application "Return applications of the job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job post"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/job/{id} [get]
func (j *ApplicationController) JobApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job := model.Job{}
	if err := j.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	if job.EmployerID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to view applications of this job post",
		})
		return
	}

	applications := []model.Application{}
	if err := j.DB.
		Where("job_id = ?", job.ID).
		Order("applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// UpdateStatus sets a new status on an application and notifies the applicant.
// @Summary Update application status
// @Description Only the employer that owns the post or an admin has access to this endpoint
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of the application"
// @Param status body statusRequest true "New status, with optional interview schedule"
// @Success 200 {object} model.Application "Successfully update application status"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job post"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/status [patch]
func (j *ApplicationController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid application id"})
		return
	}

	req := statusRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app := model.Application{}
	if err := j.DB.Preload("Job").Where("id = ?", applicationID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}

	if app.Job.EmployerID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to update this application",
		})
		return
	}

	if err := j.Updater.UpdateApplicationStatus(applicationID, req.Status); err != nil {
		if errors.Is(err, appsvc.ErrNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application status: %s", err.Error()),
		})
		return
	}

	j.Recorder.Record(user.ID, "application_status_changed",
		fmt.Sprintf("Set application %s to %s", applicationID, req.Status),
		map[string]interface{}{
			"applicationId": applicationID.String(),
			"jobId":         app.JobID,
			"status":        req.Status,
		})

	j.notifyApplicant(app, req)

	updated := model.Application{}
	if err := j.DB.Where("id = ?", applicationID).First(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// notifyApplicant maps a status change to the matching inbox entry. Legacy
// applications without an owner have nobody to notify. Dispatch failures are
// logged and never surfaced.
func (j *ApplicationController) notifyApplicant(app model.Application, req statusRequest) {
	if app.JobseekerID == uuid.Nil {
		return
	}

	companyName := j.companyName(app.Job.EmployerID)

	var err error
	switch req.Status {
	case model.ApplicationStatusInterview:
		_, err = j.Dispatcher.InterviewScheduled(app.JobseekerID, app.ID, app.Job.Title, companyName, req.Schedule)
	case model.ApplicationStatusHired:
		_, err = j.Dispatcher.Hired(app.JobseekerID, app.ID, app.Job.Title, companyName)
	case model.ApplicationStatusRejected:
		_, err = j.Dispatcher.Rejected(app.JobseekerID, app.ID, app.Job.Title, companyName)
	default:
		return
	}
	if err != nil {
		log.Printf("application: notify jobseeker %s failed: %v", app.JobseekerID, err)
	}
}

func (j *ApplicationController) companyName(employerID uuid.UUID) string {
	var employer model.EmployerProfile
	if err := j.DB.Where("user_id = ?", employerID).First(&employer).Error; err != nil {
		return "The employer"
	}
	return employer.CompanyName
}
