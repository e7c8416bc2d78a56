package test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/fouad-abdeen/SocialApp-Server/internal/auth"
	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, req service.SignUpRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, *auth.TokenPair, error) {
	args := m.Called(ctx, identifier, password)
	var user *models.User
	var pair *auth.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*auth.TokenPair)
	}
	return user, pair, args.Error(2)
}

func (m *MockAuthService) SignOut(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) Authorize(ctx context.Context, accessToken, refreshToken, requestPath string) (*models.User, *auth.TokenPair, error) {
	args := m.Called(ctx, accessToken, refreshToken, requestPath)
	var user *models.User
	var pair *auth.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	if args.Get(1) != nil {
		pair = args.Get(1).(*auth.TokenPair)
	}
	return user, pair, args.Error(2)
}

func (m *MockAuthService) VerifyEmailAddress(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) SendPasswordResetLink(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) UpdatePassword(ctx context.Context, user *models.User, currentPassword, newPassword string, terminateAllSessions bool) error {
	args := m.Called(ctx, user, currentPassword, newPassword, terminateAllSessions)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SearchUsers(ctx context.Context, usernamePrefix string, pagination repository.Pagination) ([]*models.User, error) {
	args := m.Called(ctx, usernamePrefix, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req service.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FollowUser(ctx context.Context, follower *models.User, followingID string) error {
	args := m.Called(ctx, follower, followingID)
	return args.Error(0)
}

func (m *MockUserService) UnfollowUser(ctx context.Context, follower *models.User, followingID string) error {
	args := m.Called(ctx, follower, followingID)
	return args.Error(0)
}

func (m *MockUserService) GetFollowers(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.User, error) {
	args := m.Called(ctx, user, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) GetFollowings(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.User, error) {
	args := m.Called(ctx, user, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) UploadAvatar(ctx context.Context, user *models.User, fileName string, file io.Reader, size int64) (*models.User, error) {
	args := m.Called(ctx, user, fileName, file, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) RemoveAvatar(ctx context.Context, user *models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) SubmitPost(ctx context.Context, user *models.User, req service.SubmitPostRequest) (*models.Post, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetPostByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) GetTimeline(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.Post, error) {
	args := m.Called(ctx, user, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) GetUserPosts(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Post, error) {
	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) EditPost(ctx context.Context, user *models.User, postID, content string) (*models.Post, error) {
	args := m.Called(ctx, user, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, user *models.User, postID string) error {
	args := m.Called(ctx, user, postID)
	return args.Error(0)
}

func (m *MockPostService) LikePost(ctx context.Context, user *models.User, postID string) error {
	args := m.Called(ctx, user, postID)
	return args.Error(0)
}

func (m *MockPostService) UnlikePost(ctx context.Context, user *models.User, postID string) error {
	args := m.Called(ctx, user, postID)
	return args.Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) CommentOnPost(ctx context.Context, user *models.User, postID, content string) (*models.Comment, error) {
	args := m.Called(ctx, user, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) ReplyToComment(ctx context.Context, user *models.User, commentID, content string) (*models.Comment, error) {
	args := m.Called(ctx, user, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) GetPostComments(ctx context.Context, postID string, pagination repository.Pagination) ([]*models.Comment, error) {
	args := m.Called(ctx, postID, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentService) GetCommentReplies(ctx context.Context, commentID string, pagination repository.Pagination) ([]*models.Comment, error) {
	args := m.Called(ctx, commentID, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentService) EditComment(ctx context.Context, user *models.User, commentID, content string) (*models.Comment, error) {
	args := m.Called(ctx, user, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, user *models.User, commentID string) error {
	args := m.Called(ctx, user, commentID)
	return args.Error(0)
}

func (m *MockCommentService) LikeComment(ctx context.Context, user *models.User, commentID string) error {
	args := m.Called(ctx, user, commentID)
	return args.Error(0)
}

func (m *MockCommentService) UnlikeComment(ctx context.Context, user *models.User, commentID string) error {
	args := m.Called(ctx, user, commentID)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyAboutFollowRequest(ctx context.Context, recipientID string, follower *models.User) error {
	args := m.Called(ctx, recipientID, follower)
	return args.Error(0)
}

func (m *MockNotificationService) NotifyAboutActionOnContent(ctx context.Context, req service.ContentActionNotification) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockNotificationService) RemoveNotificationAction(ctx context.Context, req service.ContentActionNotification) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockNotificationService) RemoveNotificationsForTarget(ctx context.Context, metadata models.NotificationActionMetadata) error {
	args := m.Called(ctx, metadata)
	return args.Error(0)
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

type MockFileService struct {
	mock.Mock
}

func (m *MockFileService) GetFileURL(ctx context.Context, fileID string) (string, error) {
	args := m.Called(ctx, fileID)
	return args.String(0), args.Error(1)
}
