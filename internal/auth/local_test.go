package auth

import (
	"context"
	"log"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/activity"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
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

func newHandler() *LocalAuthHandler {
	return NewLocalAuthHandler(testDB, activity.NewRecorder(testDB.DB))
}

func TestLocalRegisterJobseeker(t *testing.T) {
	handler := newHandler()

	rec, resp, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "new-seeker",
		"password": "password123",
		"role":     "jobseeker",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, resp["access_token"])

	var user model.User
	require.NoError(t, testDB.Where("username = ?", "new-seeker").First(&user).Error)
	assert.Equal(t, model.RoleJobseeker, user.Role)
	assert.NotEqual(t, "password123", user.Password)

	var profile model.JobseekerProfile
	assert.NoError(t, testDB.Where("user_id = ?", user.ID).First(&profile).Error)
}

func TestLocalRegisterEmployerStartsPending(t *testing.T) {
	handler := newHandler()

	rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, map[string]string{
		"username": "new-employer",
		"password": "password123",
		"role":     "employer",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var user model.User
	require.NoError(t, testDB.Where("username = ?", "new-employer").First(&user).Error)

	var profile model.EmployerProfile
	require.NoError(t, testDB.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, model.StatusPending, profile.DerivedStatus())
}

func TestLocalRegisterRejectsBadInput(t *testing.T) {
	handler := newHandler()

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short password", map[string]string{"username": "u1", "password": "short", "role": "jobseeker"}},
		{"bad role", map[string]string{"username": "u2", "password": "password123", "role": "admin"}},
		{"taken username", map[string]string{"username": database.TestUserSeeker1.Username, "password": "password123", "role": "jobseeker"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _, err := utilities.SimulateAPICall(handler.LocalRegisterHandler, "/register", http.MethodPost, tc.body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLocalLogin(t *testing.T) {
	handler := newHandler()

	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserSeeker1.Username,
		"password": database.TestSeedPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tokenString, _ := resp["access_token"].(string)
	require.NotEmpty(t, tokenString)

	// the token's subject is a session id, not the user id
	token, err := ValidatedToken(tokenString)
	require.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, JwtIssuer, claims.Issuer)

	sessionID, err := uuid.Parse(claims.Subject)
	require.NoError(t, err)
	assert.NotEqual(t, database.TestUserSeeker1.ID, sessionID)

	var session model.Session
	require.NoError(t, testDB.Where("id = ?", sessionID).First(&session).Error)
	assert.Equal(t, database.TestUserSeeker1.ID, session.UserID)
}

func TestLocalLoginWrongPassword(t *testing.T) {
	handler := newHandler()

	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserSeeker1.Username,
		"password": "wrong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLocalLoginUnknownUser(t *testing.T) {
	handler := newHandler()

	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": "no-such-user",
		"password": "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLocalLoginMultiDefaultsToJobseekerSession(t *testing.T) {
	handler := newHandler()

	rec, resp, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserMulti.Username,
		"password": database.TestSeedPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tokenString, _ := resp["access_token"].(string)
	require.NotEmpty(t, tokenString)

	token, err := ValidatedToken(tokenString)
	require.NoError(t, err)
	claims := token.Claims.(*jwt.RegisteredClaims)
	sessionID, err := uuid.Parse(claims.Subject)
	require.NoError(t, err)

	var session model.Session
	require.NoError(t, testDB.Where("id = ?", sessionID).First(&session).Error)
	assert.Equal(t, model.RoleJobseeker, session.ActiveRole)
}

func TestLoginRecordsActivity(t *testing.T) {
	handler := newHandler()

	var before int64
	require.NoError(t, testDB.Model(&model.UserActivity{}).
		Where("user_id = ? AND type = ?", database.TestUserSeeker2.ID, "user_login").
		Count(&before).Error)

	rec, _, err := utilities.SimulateAPICall(handler.LocalLoginHandler, "/login", http.MethodPost, map[string]string{
		"username": database.TestUserSeeker2.Username,
		"password": database.TestSeedPassword,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var after int64
	require.NoError(t, testDB.Model(&model.UserActivity{}).
		Where("user_id = ? AND type = ?", database.TestUserSeeker2.ID, "user_login").
		Count(&after).Error)
	assert.Equal(t, before+1, after)
}
