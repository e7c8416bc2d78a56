package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

func TestGetNotificationsHandler(t *testing.T) {
	handler := createTestHandlers()
	notificationService := handler.NotificationService.(*MockNotificationService)
	user := &models.User{UserID: "user-1"}

	notificationService.On("GetNotifications", mock.Anything, "user-1", repository.Pagination{Limit: 20}).
		Return([]*models.Notification{{NotificationID: "notification-1"}}, nil)

	req := authorizedRequest(httptest.NewRequest(http.MethodGet, "/notifications?limit=20", nil), user)
	rr := httptest.NewRecorder()

	handler.GetNotifications(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response []*models.Notification
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Len(t, response, 1)
}

func TestMarkNotificationReadHandler(t *testing.T) {
	t.Run("marks own notification", func(t *testing.T) {
		handler := createTestHandlers()
		notificationService := handler.NotificationService.(*MockNotificationService)
		user := &models.User{UserID: "user-1"}

		notificationService.On("MarkNotificationRead", mock.Anything, "user-1", "notification-1").Return(nil)

		req := authorizedRequest(httptest.NewRequest(http.MethodPut, "/notifications/notification-1/read", nil), user)
		req = muxRequest(req, map[string]string{"id": "notification-1"})
		rr := httptest.NewRecorder()

		handler.MarkNotificationRead(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		notificationService.AssertExpectations(t)
	})

	t.Run("someone else's notification returns 404", func(t *testing.T) {
		handler := createTestHandlers()
		notificationService := handler.NotificationService.(*MockNotificationService)
		user := &models.User{UserID: "user-1"}

		notificationService.On("MarkNotificationRead", mock.Anything, "user-1", "notification-2").
			Return(fmt.Errorf("%w: notification not found", service.ErrNotFound))

		req := authorizedRequest(httptest.NewRequest(http.MethodPut, "/notifications/notification-2/read", nil), user)
		req = muxRequest(req, map[string]string{"id": "notification-2"})
		rr := httptest.NewRecorder()

		handler.MarkNotificationRead(rr, req)

		assertJSONError(t, rr, http.StatusNotFound, "not found")
	})
}

func TestGetFileURLHandler(t *testing.T) {
	t.Run("returns a refreshed URL", func(t *testing.T) {
		handler := createTestHandlers()
		fileService := handler.FileService.(*MockFileService)

		fileService.On("GetFileURL", mock.Anything, "file-1").
			Return("https://cdn.example.com/avatars/file-1?sig=abc", nil)

		req := httptest.NewRequest(http.MethodGet, "/files?id=file-1", nil)
		rr := httptest.NewRecorder()

		handler.GetFileURL(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response map[string]string
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Contains(t, response["url"], "file-1")
	})

	t.Run("requires the id parameter", func(t *testing.T) {
		handler := createTestHandlers()

		req := httptest.NewRequest(http.MethodGet, "/files", nil)
		rr := httptest.NewRecorder()

		handler.GetFileURL(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "id")
	})
}
