package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"crewops-backend/config"
	"crewops-backend/internal/db"
	"crewops-backend/internal/directory"
	"crewops-backend/internal/model"
	"crewops-backend/internal/notification"
	"crewops-backend/internal/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))

	appStore := store.NewGormStore(gdb)
	dir := directory.New(gdb)
	registry, err := notification.NewRegistry()
	require.NoError(t, err)

	// Both channels unconfigured: dispatches resolve audiences but
	// report skipped endpoint outcomes, which is all these tests need.
	web := notification.NewWebPushDriver(&config.PushConfig{}, appStore)
	native, err := notification.NewNativePushDriver(&config.NativePushConfig{}, appStore)
	require.NoError(t, err)
	dispatcher := notification.NewDispatcher(appStore, dir, registry, web, native)
	pool := notification.NewWorkerPool(1, dispatcher)

	webpushOptions := &webpush.Options{VAPIDPublicKey: "test-public-key"}
	handler := NewHandler(appStore, webpushOptions, dispatcher, pool)

	r := gin.New()
	r.GET("/api/subscriptions", handler.GetSubscription)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.DELETE("/api/subscriptions", handler.DeleteSubscription)
	r.PUT("/api/devices", handler.PutDevice)
	r.DELETE("/api/devices", handler.DeleteDevice)
	r.POST("/api/notifications/dispatch", handler.DispatchNotification)
	r.GET("/api/vapid_public_key", handler.GetVAPIDPublicKey)
	r.GET("/api/activity_types", handler.GetActivityTypes)
	return r, gdb
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestPutSubscription(t *testing.T) {
	router, gdb := setupRouter(t)

	w := doJSON(router, http.MethodPut, "/api/subscriptions",
		`{"userId":"u1","endpoint":"https://push.example/1","p256dh":"key","auth":"secret"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var sub model.PushSubscription
	require.NoError(t, gdb.First(&sub, "endpoint = ?", "https://push.example/1").Error)
	assert.Equal(t, "u1", sub.UserID)
}

func TestPutSubscription_MissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	// Missing endpoint is the canonical malformed registration.
	w := doJSON(router, http.MethodPut, "/api/subscriptions",
		`{"userId":"u1","p256dh":"key","auth":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSubscription(t *testing.T) {
	router, gdb := setupRouter(t)
	require.NoError(t, gdb.Create(&model.PushSubscription{Endpoint: "https://push.example/1", UserID: "u1", P256DH: "k", Auth: "a"}).Error)

	w := doJSON(router, http.MethodGet, "/api/subscriptions?endpoint=https%3A%2F%2Fpush.example%2F1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)

	w = doJSON(router, http.MethodGet, "/api/subscriptions?endpoint=https%3A%2F%2Fpush.example%2Fmissing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteSubscription(t *testing.T) {
	router, gdb := setupRouter(t)
	require.NoError(t, gdb.Create(&model.PushSubscription{Endpoint: "https://push.example/1", UserID: "u1", P256DH: "k", Auth: "a"}).Error)

	w := doJSON(router, http.MethodDelete, "/api/subscriptions", `{"endpoint":"https://push.example/1"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, gdb.Model(&model.PushSubscription{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPutDevice(t *testing.T) {
	router, gdb := setupRouter(t)

	w := doJSON(router, http.MethodPut, "/api/devices", `{"userId":"u1","token":"tok1","platform":"ios"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var tok model.DeviceToken
	require.NoError(t, gdb.First(&tok, "token = ?", "tok1").Error)
	assert.Equal(t, model.PlatformIOS, tok.Platform)

	// Unknown platforms are rejected at registration time.
	w = doJSON(router, http.MethodPut, "/api/devices", `{"userId":"u1","token":"tok2","platform":"blackberry"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteDevice(t *testing.T) {
	router, gdb := setupRouter(t)
	require.NoError(t, gdb.Create(&model.DeviceToken{Token: "tok1", UserID: "u1", Platform: model.PlatformIOS}).Error)

	w := doJSON(router, http.MethodDelete, "/api/devices", `{"token":"tok1"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDispatchNotification(t *testing.T) {
	router, gdb := setupRouter(t)
	require.NoError(t, gdb.Create(&model.User{ID: "mgr1", Name: "Morgan", Role: model.RoleManager, Active: true}).Error)

	// Recipients resolve but nobody has an endpoint registered.
	w := doJSON(router, http.MethodPost, "/api/notifications/dispatch", `{"eventType":"job.updated"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"skipped"`)
}

func TestDispatchNotification_RequiresEventType(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/notifications/dispatch", `{"jobId":"job1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPost, "/api/notifications/dispatch", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchNotification_Async(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/api/notifications/dispatch?async=true", `{"eventType":"job.updated"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"queued"`)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/vapid_public_key", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test-public-key")
}

func TestGetActivityTypes(t *testing.T) {
	router, gdb := setupRouter(t)
	require.NoError(t, gdb.Create(&model.ActivityType{Code: "gear.checked_out", Label: "Gear checked out"}).Error)

	w := doJSON(router, http.MethodGet, "/api/activity_types", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gear.checked_out")
}
