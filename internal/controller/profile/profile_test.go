package profile

import (
	"context"
	"log"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/auth"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/middleware"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/testutil"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
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
	ctl := NewProfileController(testDB, activity.NewRecorder(testDB.DB))

	r := gin.New()
	needAuth := r.Group("", middleware.RequireAuth(testDB))
	needAuth.POST("/profile/role-request", ctl.RequestMultiRole)

	seeker := needAuth.Group("/jobseeker", middleware.CheckRole(testDB, model.RoleJobseeker))
	seeker.GET("/profile", ctl.GetMyJobseekerProfile)
	seeker.PATCH("/profile", ctl.EditMyJobseekerProfile)

	employer := needAuth.Group("/employer", middleware.CheckRole(testDB, model.RoleEmployer))
	employer.GET("/profile", ctl.GetMyEmployerProfile)
	employer.PATCH("/profile", ctl.EditMyEmployerProfile)
	return r
}

func tokenFor(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestGetJobseekerProfile(t *testing.T) {
	r := newEngine()
	token := tokenFor(t, database.TestUserSeeker1.Username)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/jobseeker/profile", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, database.TestSeeker1.FirstName, resp["first_name"])
}

func TestEditJobseekerProfileMergesNonEmpty(t *testing.T) {
	r := newEngine()
	token := tokenFor(t, database.TestUserSeeker1.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{"headline": "Senior backend developer"},
		token, r, "/jobseeker/profile", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Senior backend developer", resp["headline"])
	// untouched fields survive the merge
	assert.Equal(t, database.TestSeeker1.FirstName, resp["first_name"])

	var rows int64
	require.NoError(t, testDB.Model(&model.UserActivity{}).
		Where("user_id = ? AND type = ?", database.TestUserSeeker1.ID, "profile_updated").
		Count(&rows).Error)
	assert.GreaterOrEqual(t, rows, int64(1))
}

func TestEmployerCannotReachJobseekerProfile(t *testing.T) {
	r := newEngine()
	token := tokenFor(t, database.TestUserEmployer1.Username)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/jobseeker/profile", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditEmployerProfileKeepsVerification(t *testing.T) {
	r := newEngine()
	token := tokenFor(t, database.TestUserEmployer1.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{"overview": "Updated overview"},
		token, r, "/employer/profile", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Updated overview", resp["overview"])

	var employer model.EmployerProfile
	require.NoError(t, testDB.Where("user_id = ?", database.TestUserEmployer1.ID).First(&employer).Error)
	assert.Equal(t, model.StatusApproved, employer.DerivedStatus())
}

func TestRequestMultiRoleFromJobseeker(t *testing.T) {
	r := newEngine()

	// fresh jobseeker so the seeded accounts keep their roles
	password, err := utilities.HashPassword(database.TestSeedPassword)
	require.NoError(t, err)
	user := model.User{
		ID:       uuid.New(),
		Username: "role_request_seeker",
		Role:     model.RoleJobseeker,
		Password: password,
	}
	require.NoError(t, testDB.Create(&user).Error)
	require.NoError(t, testDB.Create(&model.JobseekerProfile{
		UserID: user.ID,
		EditableJobseekerInfo: model.EditableJobseekerInfo{
			FirstName: "Role", LastName: "Requester",
		},
	}).Error)
	t.Cleanup(func() {
		testDB.Delete(&model.EmployerProfile{}, "user_id = ?", user.ID)
		testDB.Delete(&model.JobseekerProfile{}, "user_id = ?", user.ID)
		testDB.Delete(&model.Session{}, "user_id = ?", user.ID)
		testDB.Delete(&model.User{}, "id = ?", user.ID)
	})

	token := tokenFor(t, user.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"employer": gin.H{"company_name": "Requester Inc", "industry": "Services"},
	}, token, r, "/profile/role-request", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleMultiPending, resp["role"])
	assert.Equal(t, model.RoleJobseeker, resp["active_role"])

	// the employer profile was created alongside the role flip
	var employer model.EmployerProfile
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&employer).Error)
	assert.Equal(t, "Requester Inc", employer.CompanyName)
	assert.Equal(t, model.StatusPending, employer.DerivedStatus())

	// a second request while pending is rejected
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"employer": gin.H{"company_name": "Requester Inc"},
	}, token, r, "/profile/role-request", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already pending")
}

func TestRequestMultiRoleMissingProfileBody(t *testing.T) {
	r := newEngine()

	password, err := utilities.HashPassword(database.TestSeedPassword)
	require.NoError(t, err)
	user := model.User{
		ID:       uuid.New(),
		Username: "role_request_nobody",
		Role:     model.RoleJobseeker,
		Password: password,
	}
	require.NoError(t, testDB.Create(&user).Error)
	t.Cleanup(func() {
		testDB.Delete(&model.Session{}, "user_id = ?", user.ID)
		testDB.Delete(&model.User{}, "id = ?", user.ID)
	})

	rec, resp := testutil.MakeJSONRequest(gin.H{}, tokenFor(t, user.Username), r,
		"/profile/role-request", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "Employer profile information required")

	// role untouched on failure
	var stored model.User
	require.NoError(t, testDB.First(&stored, "id = ?", user.ID).Error)
	assert.Equal(t, model.RoleJobseeker, stored.Role)
}

func TestRequestMultiRoleFromAdminForbidden(t *testing.T) {
	r := newEngine()
	rec, _ := testutil.MakeJSONRequest(gin.H{}, tokenFor(t, database.TestAdminUser.Username), r,
		"/profile/role-request", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
