package application

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	appsvc "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/application"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/auth"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/middleware"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/notification"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	testDB = db

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func newEngine() *gin.Engine {
	ctl := NewApplicationController(
		testDB,
		appsvc.NewUpdater(testDB.DB),
		notification.NewDispatcher(testDB.DB),
		activity.NewRecorder(testDB.DB),
	)

	r := gin.New()
	r.Use(middleware.RequireAuth(testDB))
	r.POST("/application", ctl.ApplicationHandler)
	r.GET("/application/my", ctl.MyApplications)
	r.GET("/application/job/:id", ctl.JobApplications)
	r.PATCH("/application/:id/status", ctl.UpdateStatus)
	return r
}

func seekerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestUserSeeker1.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func employerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestUserEmployer1.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestApplyFlow(t *testing.T) {
	r := newEngine()
	token := seekerToken(t)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"job_id":       database.TestJob1.ID,
		"cover_letter": "hire me",
	}, token, r, "/application", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	applicationID, err := uuid.Parse(resp["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, resp["status"])

	// mirror row shares the id
	var mirror model.JobseekerApplication
	require.NoError(t, testDB.Where("application_id = ?", applicationID).First(&mirror).Error)
	assert.Equal(t, database.TestUserSeeker1.ID, mirror.JobseekerID)

	// the job owner got an inbox entry
	var n model.Notification
	require.NoError(t, testDB.
		Where("recipient_id = ? AND application_id = ?", database.TestJob1.EmployerID, applicationID).
		First(&n).Error)
	assert.Equal(t, model.NotificationApplicationReceived, n.Type)
	assert.Contains(t, n.Message, database.TestJob1.Title)

	// and the applicant's ledgers recorded the event
	var entries int64
	require.NoError(t, testDB.Model(&model.JobseekerActivity{}).
		Where("user_id = ? AND type = ?", database.TestUserSeeker1.ID, "application_submitted").
		Count(&entries).Error)
	assert.GreaterOrEqual(t, entries, int64(1))
}

func TestApplyTwiceRejected(t *testing.T) {
	r := newEngine()
	token := seekerToken(t)

	body := gin.H{"job_id": database.TestJob2.ID}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/application", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, resp := testutil.MakeJSONRequest(body, token, r, "/application", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already applied")
}

func TestApplyUnknownJob(t *testing.T) {
	r := newEngine()
	token := seekerToken(t)

	rec, _ := testutil.MakeJSONRequest(gin.H{"job_id": 999999}, token, r, "/application", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyApplicationsReadsMirror(t *testing.T) {
	r := newEngine()
	token := seekerToken(t)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/application/my", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestStatusUpdateNotifiesApplicant(t *testing.T) {
	r := newEngine()

	// seeker2 applies to employer1's job
	seeker2Token, err := auth.GetAccessToken(t, testDB, database.TestUserSeeker2.Username, database.TestSeedPassword)
	require.NoError(t, err)
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob1.ID}, seeker2Token, r, "/application", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	applicationID := resp["id"].(string)

	// the owner schedules an interview
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"status":   model.ApplicationStatusInterview,
		"schedule": "Friday 14:00",
	}, employerToken(t), r, "/application/"+applicationID+"/status", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.ApplicationStatusInterview, resp["status"])

	// mirror follows the primary
	var mirror model.JobseekerApplication
	require.NoError(t, testDB.Where("application_id = ?", applicationID).First(&mirror).Error)
	assert.Equal(t, model.ApplicationStatusInterview, mirror.Status)

	// the applicant got the interview notification with the schedule
	var n model.Notification
	require.NoError(t, testDB.
		Where("recipient_id = ? AND application_id = ? AND type = ?",
			database.TestUserSeeker2.ID, applicationID, model.NotificationInterviewScheduled).
		First(&n).Error)
	assert.Contains(t, n.Message, "Friday 14:00")
}

func TestStatusUpdateByNonOwnerForbidden(t *testing.T) {
	r := newEngine()

	// employer2 owns job3, employer1 must not touch its applications
	seekerTok := seekerToken(t)
	rec, resp := testutil.MakeJSONRequest(gin.H{"job_id": database.TestJob3.ID}, seekerTok, r, "/application", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	applicationID := resp["id"].(string)

	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.ApplicationStatusHired},
		employerToken(t), r, "/application/"+applicationID+"/status", http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestJobApplicationsOwnerOnly(t *testing.T) {
	r := newEngine()

	rec, _ := testutil.MakeJSONRequest(nil, employerToken(t), r,
		"/application/job/"+itoa(database.TestJob1.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// job3 belongs to employer2
	rec, _ = testutil.MakeJSONRequest(nil, employerToken(t), r,
		"/application/job/"+itoa(database.TestJob3.ID), http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
