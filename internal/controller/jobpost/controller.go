// Package jobpost provides HTTP handlers for job post related operations.
package jobpost

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// JobPostController handles job post related endpoints
type JobPostController struct {
	DB       *database.DBinstanceStruct
	Recorder *activity.Recorder
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(db *database.DBinstanceStruct, recorder *activity.Recorder) *JobPostController {
	return &JobPostController{
		DB:       db,
		Recorder: recorder,
	}
}

// CreateJobPostHandler handles the creation of a new job post by an employer.
// @Summary Create job post based on given json structure
// @Description Only verified employers have access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Jobpost body model.EditableJobInfo true "Input job post information"
// @Success 201 {object} model.Job "Successfully create job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job post struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as verified employer"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost [post]
func (jc *JobPostController) CreateJobPostHandler(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	// Ensure that the caller is a verified employer
	var employer model.EmployerProfile
	if err := jc.DB.Where("user_id = ?", user.ID.String()).First(&employer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Only employers can create job posts"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve employer information: %s", err.Error()),
		})
		return
	}
	if employer.DerivedStatus() != model.StatusApproved {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only verified employers can create job posts",
		})
		return
	}

	// construct job post from request
	job := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&job.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	// save job post
	job.EmployerID = user.ID
	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job post: ", err),
		})
		return
	}

	jc.Recorder.Record(user.ID, "job_posted", fmt.Sprintf("Posted job %q", job.Title), map[string]interface{}{
		"jobId":      job.ID,
		"activeRole": model.RoleEmployer,
	})

	c.JSON(http.StatusCreated, job)
}

// GetPosts fetches all non-expired job posts that match the query from the
// database and returns them as a JSON response.
// @Summary Get non-expired job posts based on query
// @Description Every query is optional, each has a specific use defined in its description
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from job post title with substring matching and case insensitive"
// @Param type query string false "Job type field with substring matching and case insensitive"
// @Param tag query string false "Search if tags field contain tag param, no substring matching and case insensitive"
// @Param salary query string false "Salary field, must exactly match to get result"
// @Param exp query string false "Exp_lvl field, must exactly match to get result"
// @Param company query string false "Search from company name with substring matching and case insensitive"
// @Param industry query string false "Search from industry of employer with substring matching and case insensitive"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Param desc query boolean false "Sorting by post time in descending if true, otherwise ascending"
// @Success 200 {array} model.JobResponse "Return non-expired job post(s)"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	rawSearch := c.Query("search")
	rawJobType := c.Query("type")
	rawTag := c.Query("tag")
	rawSalary := c.Query("salary")
	rawExp := c.Query("exp")
	rawCompany := c.Query("company")
	rawIndustry := c.Query("industry")
	rawLocation := c.Query("location")
	rawDesc := c.Query("desc")

	var rawPosts []model.Job

	result := jc.DB.Preload("Applications").
		Where("expiring > ? OR expiring IS NULL", time.Now())

	if rawSearch != "" {
		result = result.Where("title ILIKE ?", "%"+rawSearch+"%")
	}

	if rawJobType != "" {
		result = result.Where("type ILIKE ?", "%"+rawJobType+"%")
	}

	if rawTag != "" {
		result = result.Where("? ILIKE ANY(tags)", rawTag)
	}

	if rawSalary != "" {
		result = result.Where("salary = ?", rawSalary)
	}

	if rawExp != "" {
		result = result.Where("exp_lvl = ?", rawExp)
	}

	// Join employer_profiles only once if needed for company or industry
	// filters. Legacy rows carry the owner under company_id, so the join key
	// is the coalesced owner column.
	if rawCompany != "" || rawIndustry != "" {
		result = result.Joins("JOIN employer_profiles ON employer_profiles.user_id = COALESCE(jobs.employer_id, jobs.company_id)")
	}

	if rawCompany != "" {
		result = result.Where("employer_profiles.company_name ILIKE ?", "%"+rawCompany+"%")
	}

	if rawIndustry != "" {
		result = result.Where("employer_profiles.industry ILIKE ?", "%"+rawIndustry+"%")
	}

	if rawLocation != "" {
		result = result.Where("jobs.location ILIKE ?", "%"+rawLocation+"%")
	}

	result = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "post_time"},
		Desc:   strings.ToLower(rawDesc) == "true",
	}).Find(&rawPosts)

	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job post: ", err.Error()),
		})
		return
	}

	posts := []model.JobResponse{}
	for _, rawPost := range rawPosts {
		rawPostResp, err := rawPost.ToJobResponse(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprint("Failed to process job post: ", err.Error()),
			})
			return
		}
		posts = append(posts, rawPostResp)
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID fetches a job post by its ID from the database
// and returns it as a JSON response.
// @Summary Get job post by ID
// @Description Retrieve a specific job post using its unique ID
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Success 200 {object} model.JobResponse "Return the job post with the specified ID"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	id := c.Param("id")

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job := model.Job{}
	if err := jc.DB.
		Preload("Applications").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	rawPostResp, err := job.ToJobResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to process job post: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, rawPostResp)
}

// EditJobPost allows an employer to update a job post they own.
// @Summary Edit job post based on given json structure
// @Description Only the employer that owns the post or an admin has access to this endpoint
// @Tags Jobpost
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Param Jobpost body model.EditableJobInfo true "Input job post information"
// @Success 200 {object} model.Job "Successfully update job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid job post struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [patch]
func (jc *JobPostController) EditJobPost(c *gin.Context) {

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")

	job, err := database.FindByID[model.Job](jc.DB.DB, id)
	if err != nil {
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
			Error: "You are not allowed to edit this job post",
		})
		return
	}

	// Bind incoming JSON to a temporary struct to avoid overwriting ownership fields
	updated := model.Job{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated.EditableJobInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := jc.DB.Model(&job).Updates(updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job post: %s", err.Error()),
		})
		return
	}

	// Reload the job post to return the latest data
	if err := jc.DB.Where("id = ?", job.ID).First(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated job post: %s", err.Error()),
		})
		return
	}

	jc.Recorder.Record(user.ID, "job_updated", fmt.Sprintf("Updated job %q", job.Title), map[string]interface{}{
		"jobId": job.ID,
	})

	c.JSON(http.StatusOK, job)
}

// DeleteJobPost allows an employer to delete a job post they own.
// @Summary Delete given job post ID
// @Description Only the employer that owns the post or an admin has access to this endpoint
// @Tags Jobpost
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job post"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this post"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobpost/{id} [delete]
func (jc *JobPostController) DeleteJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	id := c.Param("id")

	job, err := database.FindByID[model.Job](jc.DB.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job post: %s", err.Error()),
		})
		return
	}

	if job.EmployerID != user.ID {
		// Allow admins to bypass ownership check
		if user.Role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "You are not allowed to delete this job post",
			})
			return
		}
	}

	if err := jc.DB.Delete(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job post: %s", err.Error()),
		})
		return
	}

	jc.Recorder.Record(user.ID, "job_deleted", fmt.Sprintf("Deleted job %q", job.Title), map[string]interface{}{
		"jobId": job.ID,
	})

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job post deleted"})
}
