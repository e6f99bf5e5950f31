package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
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
	return newEngineWithDispatcher(notification.NewDispatcher(testDB.DB))
}

func newEngineWithDispatcher(dispatcher *notification.Dispatcher) *gin.Engine {
	ctl := NewAdminController(
		testDB,
		dispatcher,
		activity.NewRecorder(testDB.DB),
	)

	r := gin.New()
	admin := r.Group("/admin", middleware.RequireAuth(testDB), middleware.CheckRole(testDB, model.RoleAdmin))
	admin.GET("/employers", ctl.GetEmployers)
	admin.PATCH("/verify-employer/:id", ctl.VerifyEmployer)
	admin.PATCH("/role-request/:id", ctl.ApproveRoleRequest)
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, database.TestAdminUser.Username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func performJSON(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(rec *httptest.ResponseRecorder, out interface{}) error {
	return json.Unmarshal(rec.Body.Bytes(), out)
}

func TestGetEmployersFilterByDerivedStatus(t *testing.T) {
	r := newEngine()
	token := adminToken(t)

	req, _ := http.NewRequest(http.MethodGet, "/admin/employers?verify=Pending", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := performJSON(r, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp []map[string]interface{}
	require.NoError(t, decode(rec, &resp))
	require.NotEmpty(t, resp)
	for _, e := range resp {
		assert.Equal(t, model.StatusPending, e["derived_status"])
	}
}

func TestGetEmployersForbiddenForEmployer(t *testing.T) {
	r := newEngine()
	token, err := auth.GetAccessToken(t, testDB, database.TestUserEmployer1.Username, database.TestSeedPassword)
	require.NoError(t, err)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, "/admin/employers", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyEmployerApprove(t *testing.T) {
	r := newEngine()
	token := adminToken(t)
	target := database.TestUserEmployer2.ID

	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, token, r,
		"/admin/verify-employer/"+target.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusApproved, resp["derived_status"])

	// raw columns were written, the legacy flag is cleared
	var employer model.EmployerProfile
	require.NoError(t, testDB.Where("user_id = ?", target).First(&employer).Error)
	assert.Equal(t, model.StatusApproved, employer.VerificationStatus)
	assert.Equal(t, model.StatusApproved, employer.DerivedStatus())

	// the employer was told
	var n model.Notification
	require.NoError(t, testDB.
		Where("recipient_id = ? AND type = ?", target, model.NotificationSystem).
		Order("created_at DESC").First(&n).Error)
	assert.Equal(t, "Verification approved", n.Title)

	// the admin's own ledger recorded the decision
	var adminRows int64
	require.NoError(t, testDB.Model(&model.AdminActivity{}).
		Where("user_id = ? AND type = ?", database.TestAdminUser.ID, "employer_verification").
		Count(&adminRows).Error)
	assert.GreaterOrEqual(t, adminRows, int64(1))

	// restore seed state for other packages sharing the container
	t.Cleanup(func() {
		testDB.Model(&model.EmployerProfile{}).Where("user_id = ?", target).
			Updates(map[string]interface{}{
				"verification_status":   model.StatusPending,
				"verification_rejected": nil,
			})
	})
}

func TestVerifyEmployerRejectWithReason(t *testing.T) {
	r := newEngine()
	token := adminToken(t)
	target := database.TestUserEmployer2.ID

	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "reject", "reason": "documents unreadable"},
		token, r, "/admin/verify-employer/"+target.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusRejected, resp["derived_status"])

	var n model.Notification
	require.NoError(t, testDB.
		Where("recipient_id = ? AND type = ?", target, model.NotificationSystem).
		Order("created_at DESC").First(&n).Error)
	assert.Equal(t, "Verification rejected", n.Title)
	assert.Contains(t, n.Message, "documents unreadable")

	t.Cleanup(func() {
		testDB.Model(&model.EmployerProfile{}).Where("user_id = ?", target).
			Updates(map[string]interface{}{
				"verification_status":   model.StatusPending,
				"verification_rejected": nil,
			})
	})
}

func TestVerifyEmployerRejectionFlagShadowsStatus(t *testing.T) {
	// a raw legacy flag must win over the status column until approve clears it
	target := database.TestUserEmployer2.ID
	require.NoError(t, testDB.Model(&model.EmployerProfile{}).Where("user_id = ?", target).
		Updates(map[string]interface{}{
			"verification_status":   model.StatusApproved,
			"verification_rejected": datatypes.JSON([]byte(`"true"`)),
		}).Error)
	t.Cleanup(func() {
		testDB.Model(&model.EmployerProfile{}).Where("user_id = ?", target).
			Updates(map[string]interface{}{
				"verification_status":   model.StatusPending,
				"verification_rejected": nil,
			})
	})

	var employer model.EmployerProfile
	require.NoError(t, testDB.Where("user_id = ?", target).First(&employer).Error)
	assert.Equal(t, model.StatusRejected, employer.DerivedStatus())

	// approve through the endpoint clears the flag
	r := newEngine()
	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, adminToken(t), r,
		"/admin/verify-employer/"+target.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusApproved, resp["derived_status"])
}

func TestVerifyEmployerBadDecision(t *testing.T) {
	r := newEngine()
	rec, _ := testutil.MakeJSONRequest(gin.H{"decision": "maybe"}, adminToken(t), r,
		"/admin/verify-employer/"+database.TestUserEmployer2.ID.String(), http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyEmployerNotFound(t *testing.T) {
	r := newEngine()
	rec, _ := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, adminToken(t), r,
		"/admin/verify-employer/"+uuid.NewString(), http.MethodPatch)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// brokenDispatcher returns a dispatcher whose inserts always fail.
func brokenDispatcher() *notification.Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return notification.NewDispatcher(testDB.DB.WithContext(ctx))
}

func TestVerifyEmployerSurvivesNotificationFailure(t *testing.T) {
	r := newEngineWithDispatcher(brokenDispatcher())
	target := database.TestUserEmployer2.ID

	var before int64
	require.NoError(t, testDB.Model(&model.Notification{}).
		Where("recipient_id = ?", target).Count(&before).Error)

	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, adminToken(t), r,
		"/admin/verify-employer/"+target.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusApproved, resp["derived_status"])

	// the decision stuck even though no inbox entry could be written
	var employer model.EmployerProfile
	require.NoError(t, testDB.Where("user_id = ?", target).First(&employer).Error)
	assert.Equal(t, model.StatusApproved, employer.DerivedStatus())

	var after int64
	require.NoError(t, testDB.Model(&model.Notification{}).
		Where("recipient_id = ?", target).Count(&after).Error)
	assert.Equal(t, before, after)

	t.Cleanup(func() {
		testDB.Model(&model.EmployerProfile{}).Where("user_id = ?", target).
			Updates(map[string]interface{}{
				"verification_status":   model.StatusPending,
				"verification_rejected": nil,
			})
	})
}

func TestRoleRequestSurvivesNotificationFailure(t *testing.T) {
	r := newEngineWithDispatcher(brokenDispatcher())

	pending := model.User{
		ID:         uuid.New(),
		Username:   "pending_role_noinbox_test",
		Role:       model.RoleMultiPending,
		ActiveRole: model.RoleJobseeker,
		Password:   "x",
	}
	require.NoError(t, testDB.Create(&pending).Error)
	t.Cleanup(func() { testDB.Delete(&model.User{}, "id = ?", pending.ID) })

	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, adminToken(t), r,
		"/admin/role-request/"+pending.ID.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleMulti, resp["role"])

	var stored model.User
	require.NoError(t, testDB.First(&stored, "id = ?", pending.ID).Error)
	assert.Equal(t, model.RoleMulti, stored.Role)
}

func TestApproveRoleRequest(t *testing.T) {
	r := newEngine()
	token := adminToken(t)

	// seeker with a pending multi-role request, original role parked in ActiveRole
	pending := model.User{
		ID:         uuid.New(),
		Username:   "pending_role_admin_test",
		Role:       model.RoleMultiPending,
		ActiveRole: model.RoleJobseeker,
		Password:   "x",
	}
	require.NoError(t, testDB.Create(&pending).Error)
	t.Cleanup(func() { testDB.Delete(&model.User{}, "id = ?", pending.ID) })

	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, token, r,
		"/admin/role-request/"+pending.ID.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleMulti, resp["role"])

	var n model.Notification
	require.NoError(t, testDB.
		Where("recipient_id = ? AND type = ?", pending.ID, model.NotificationSystem).
		Order("created_at DESC").First(&n).Error)
	assert.Equal(t, "Multi-role request approved", n.Title)
}

func TestRejectRoleRequestRestoresOriginalRole(t *testing.T) {
	r := newEngine()

	pending := model.User{
		ID:         uuid.New(),
		Username:   "pending_role_reject_test",
		Role:       model.RoleMultiPending,
		ActiveRole: model.RoleEmployer,
		Password:   "x",
	}
	require.NoError(t, testDB.Create(&pending).Error)
	t.Cleanup(func() { testDB.Delete(&model.User{}, "id = ?", pending.ID) })

	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "reject"}, adminToken(t), r,
		"/admin/role-request/"+pending.ID.String(), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleEmployer, resp["role"])
}

func TestRoleRequestWithoutPendingState(t *testing.T) {
	r := newEngine()
	rec, resp := testutil.MakeJSONRequest(gin.H{"decision": "approve"}, adminToken(t), r,
		"/admin/role-request/"+database.TestUserSeeker1.ID.String(), http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "no pending role request")
}
