package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

func TestSearchUsersHandler(t *testing.T) {
	t.Run("returns matching users", func(t *testing.T) {
		handler := createTestHandlers()
		userService := handler.UserService.(*MockUserService)

		userService.On("SearchUsers", mock.Anything, "jo", repository.Pagination{Limit: 10}).
			Return([]*models.User{{UserID: "user-1", Username: "john.doe"}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/search?username=jo&limit=10", nil)
		rr := httptest.NewRecorder()

		handler.SearchUsers(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response []*models.User
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Len(t, response, 1)
	})

	t.Run("requires the username parameter", func(t *testing.T) {
		handler := createTestHandlers()

		req := httptest.NewRequest(http.MethodGet, "/users/search", nil)
		rr := httptest.NewRecorder()

		handler.SearchUsers(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "username")
	})
}

func TestUpdateProfileHandler(t *testing.T) {
	handler := createTestHandlers()
	userService := handler.UserService.(*MockUserService)
	user := &models.User{UserID: "user-1"}

	userService.On("UpdateProfile", mock.Anything, "user-1", service.UpdateProfileRequest{
		FirstName: "John",
		LastName:  "Doe",
		Bio:       "gopher",
	}).Return(&models.User{UserID: "user-1", Bio: "gopher"}, nil)

	body, _ := json.Marshal(map[string]string{
		"firstName": "John",
		"lastName":  "Doe",
		"bio":       "gopher",
	})
	req := authorizedRequest(httptest.NewRequest(http.MethodPatch, "/users/profile", bytes.NewBuffer(body)), user)
	rr := httptest.NewRecorder()

	handler.UpdateProfile(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	userService.AssertExpectations(t)
}

func TestFollowHandlers(t *testing.T) {
	t.Run("follows a user", func(t *testing.T) {
		handler := createTestHandlers()
		userService := handler.UserService.(*MockUserService)
		user := &models.User{UserID: "user-1"}

		userService.On("FollowUser", mock.Anything, user, "user-2").Return(nil)

		req := authorizedRequest(httptest.NewRequest(http.MethodPost, "/users/user-2/follow", nil), user)
		req = muxRequest(req, map[string]string{"id": "user-2"})
		rr := httptest.NewRecorder()

		handler.FollowUser(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		userService.AssertExpectations(t)
	})

	t.Run("following twice conflicts", func(t *testing.T) {
		handler := createTestHandlers()
		userService := handler.UserService.(*MockUserService)
		user := &models.User{UserID: "user-1"}

		userService.On("FollowUser", mock.Anything, user, "user-2").
			Return(fmt.Errorf("%w: user is already followed", service.ErrConflict))

		req := authorizedRequest(httptest.NewRequest(http.MethodPost, "/users/user-2/follow", nil), user)
		req = muxRequest(req, map[string]string{"id": "user-2"})
		rr := httptest.NewRecorder()

		handler.FollowUser(rr, req)

		assertJSONError(t, rr, http.StatusConflict, "already followed")
	})

	t.Run("unfollows a user", func(t *testing.T) {
		handler := createTestHandlers()
		userService := handler.UserService.(*MockUserService)
		user := &models.User{UserID: "user-1"}

		userService.On("UnfollowUser", mock.Anything, user, "user-2").Return(nil)

		req := authorizedRequest(httptest.NewRequest(http.MethodPost, "/users/user-2/unfollow", nil), user)
		req = muxRequest(req, map[string]string{"id": "user-2"})
		rr := httptest.NewRecorder()

		handler.UnfollowUser(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		userService.AssertExpectations(t)
	})
}

func TestUploadAvatarHandler(t *testing.T) {
	t.Run("uploads the avatar file", func(t *testing.T) {
		handler := createTestHandlers()
		userService := handler.UserService.(*MockUserService)
		user := &models.User{UserID: "user-1"}

		userService.On("UploadAvatar", mock.Anything, user, "avatar.png", mock.Anything, mock.Anything).
			Return(&models.User{UserID: "user-1", Avatar: "file-1"}, nil)

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("avatar", "avatar.png")
		assert.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		assert.NoError(t, err)
		assert.NoError(t, writer.Close())

		req := authorizedRequest(httptest.NewRequest(http.MethodPost, "/users/avatar", &buf), user)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()

		handler.UploadAvatar(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		userService.AssertExpectations(t)
	})

	t.Run("requires the avatar field", func(t *testing.T) {
		handler := createTestHandlers()
		user := &models.User{UserID: "user-1"}

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		assert.NoError(t, writer.WriteField("note", "no file here"))
		assert.NoError(t, writer.Close())

		req := authorizedRequest(httptest.NewRequest(http.MethodPost, "/users/avatar", &buf), user)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()

		handler.UploadAvatar(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "avatar file is required")
	})
}
