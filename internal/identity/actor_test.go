package identity

import (
	"context"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
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

func openSession(t *testing.T, userID uuid.UUID, activeRole string) model.Session {
	t.Helper()
	session := model.Session{
		ID:         uuid.New(),
		UserID:     userID,
		ActiveRole: activeRole,
	}
	require.NoError(t, testDB.Create(&session).Error)
	t.Cleanup(func() {
		testDB.Delete(&model.Session{}, "id = ?", session.ID)
	})
	return session
}

func TestResolve(t *testing.T) {
	session := openSession(t, database.TestUserSeeker1.ID, "")

	actor, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)

	assert.Equal(t, database.TestUserSeeker1.ID, actor.UserID)
	assert.Equal(t, session.ID, actor.SessionID)
	assert.Equal(t, model.RoleJobseeker, actor.Role)
	assert.Equal(t, model.RoleJobseeker, actor.EffectiveRole())
}

func TestResolveMissingSession(t *testing.T) {
	_, err := Resolve(testDB.DB, uuid.New())
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestRequireRoleExactMatch(t *testing.T) {
	session := openSession(t, database.TestUserEmployer1.ID, "")
	actor, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)

	got, err := RequireRole(testDB.DB, actor, model.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestRequireRoleMismatch(t *testing.T) {
	session := openSession(t, database.TestUserSeeker1.ID, "")
	actor, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)

	_, err = RequireRole(testDB.DB, actor, model.RoleEmployer)
	assert.Error(t, err)
}

func TestRequireRoleMultiSelfHeal(t *testing.T) {
	session := openSession(t, database.TestUserMulti.ID, model.RoleJobseeker)
	actor, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleJobseeker, actor.EffectiveRole())

	healed, err := RequireRole(testDB.DB, actor, model.RoleEmployer)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployer, healed.ActiveRole)
	assert.Equal(t, model.RoleEmployer, healed.EffectiveRole())

	// the switch is persisted, the next resolve sees the employer side
	again, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployer, again.ActiveRole)

	var user model.User
	require.NoError(t, testDB.Where("id = ?", database.TestUserMulti.ID).First(&user).Error)
	assert.Equal(t, model.RoleEmployer, user.ActiveRole)

	// heal back for other tests
	_, err = RequireRole(testDB.DB, again, model.RoleJobseeker)
	require.NoError(t, err)
}

func TestRequireRoleMultiAdminGate(t *testing.T) {
	session := openSession(t, database.TestUserMulti.ID, model.RoleJobseeker)
	actor, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)

	// multi-role accounts never heal onto admin
	_, err = RequireRole(testDB.DB, actor, model.RoleAdmin)
	assert.Error(t, err)
}

func TestRequireRolePendingFailsEveryGate(t *testing.T) {
	pending := model.User{
		Username:   "pending-role-user",
		Role:       model.RoleMultiPending,
		ActiveRole: model.RoleJobseeker,
	}
	require.NoError(t, testDB.Create(&pending).Error)
	t.Cleanup(func() {
		testDB.Delete(&model.User{}, "id = ?", pending.ID)
	})

	session := openSession(t, pending.ID, model.RoleJobseeker)
	actor, err := Resolve(testDB.DB, session.ID)
	require.NoError(t, err)

	for _, role := range []string{model.RoleJobseeker, model.RoleEmployer, model.RoleAdmin} {
		_, err := RequireRole(testDB.DB, actor, role)
		assert.Errorf(t, err, "role %s should be gated", role)
	}
}
