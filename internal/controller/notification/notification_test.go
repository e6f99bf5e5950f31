package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/auth"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/database"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/middleware"
	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/model"
	notifsvc "github.com/MACKY1516/ranao-jobs-platform-sub002/internal/notification"
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
	ctl := NewNotificationController(testDB)

	r := gin.New()
	grp := r.Group("/notification", middleware.RequireAuth(testDB))
	grp.GET("", ctl.MyNotifications)
	grp.PATCH("/:id/read", ctl.MarkRead)
	return r
}

func tokenFor(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func fetchInbox(t *testing.T, r *gin.Engine, token, query string) []model.Notification {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, "/notification"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var inbox []model.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	return inbox
}

func TestMyNotificationsScopedToRecipient(t *testing.T) {
	r := newEngine()
	dispatcher := notifsvc.NewDispatcher(testDB.DB)

	mine, err := dispatcher.System(database.TestUserSeeker1.ID, "Inbox test", "for seeker1")
	require.NoError(t, err)
	theirs, err := dispatcher.System(database.TestUserSeeker2.ID, "Inbox test", "for seeker2")
	require.NoError(t, err)
	t.Cleanup(func() {
		testDB.Delete(&model.Notification{}, mine)
		testDB.Delete(&model.Notification{}, theirs)
	})

	inbox := fetchInbox(t, r, tokenFor(t, database.TestUserSeeker1.Username), "")
	require.NotEmpty(t, inbox)
	for _, n := range inbox {
		assert.Equal(t, database.TestUserSeeker1.ID, n.RecipientID)
	}
}

func TestMyNotificationsUnreadFilter(t *testing.T) {
	r := newEngine()
	dispatcher := notifsvc.NewDispatcher(testDB.DB)
	token := tokenFor(t, database.TestUserSeeker1.Username)

	id, err := dispatcher.System(database.TestUserSeeker1.ID, "Unread test", "still unread")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Delete(&model.Notification{}, id) })

	unread := fetchInbox(t, r, token, "?unread=true")
	require.NotEmpty(t, unread)
	for _, n := range unread {
		assert.False(t, n.IsRead)
	}
}

func TestMarkRead(t *testing.T) {
	r := newEngine()
	dispatcher := notifsvc.NewDispatcher(testDB.DB)
	token := tokenFor(t, database.TestUserSeeker1.Username)

	id, err := dispatcher.System(database.TestUserSeeker1.ID, "Read test", "mark me")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Delete(&model.Notification{}, id) })

	rec, _ := testutil.MakeJSONRequest(nil, token, r,
		"/notification/"+strconv.Itoa(int(id))+"/read", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored model.Notification
	require.NoError(t, testDB.First(&stored, id).Error)
	assert.True(t, stored.IsRead)
}

func TestMarkReadOnOthersNotification(t *testing.T) {
	r := newEngine()
	dispatcher := notifsvc.NewDispatcher(testDB.DB)

	// seeker2 owns the row, seeker1 must see a 404
	id, err := dispatcher.System(database.TestUserSeeker2.ID, "Not yours", "hands off")
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Delete(&model.Notification{}, id) })

	rec, _ := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestUserSeeker1.Username), r,
		"/notification/"+strconv.Itoa(int(id))+"/read", http.MethodPatch)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var stored model.Notification
	require.NoError(t, testDB.First(&stored, id).Error)
	assert.False(t, stored.IsRead)
}
