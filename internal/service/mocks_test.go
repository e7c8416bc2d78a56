package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/fouad-abdeen/SocialApp-Server/internal/mail"
	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) GetUsersByIDs(ctx context.Context, userIDs []string, pagination repository.Pagination) ([]*models.User, error) {
	args := m.Called(ctx, userIDs, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserRepo) SearchUsersByUsername(ctx context.Context, usernamePrefix string, pagination repository.Pagination) ([]*models.User, error) {
	args := m.Called(ctx, usernamePrefix, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, userID string, cmd *repository.UpdateCommand) (*models.User, error) {
	args := m.Called(ctx, userID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepo) PruneDenylistedTokens(ctx context.Context, userID string, nowUnix int64) error {
	args := m.Called(ctx, userID, nowUnix)
	return args.Error(0)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) CreateNotification(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepo) UpdateNotification(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *mockNotificationRepo) DeleteNotification(ctx context.Context, notificationID string) error {
	args := m.Called(ctx, notificationID)
	return args.Error(0)
}

func (m *mockNotificationRepo) DeleteNotificationsByActionMetadata(ctx context.Context, metadata models.NotificationActionMetadata) error {
	args := m.Called(ctx, metadata)
	return args.Error(0)
}

func (m *mockNotificationRepo) GetNotificationByActionMetadata(ctx context.Context, action models.NotificationAction, target repository.NotificationTarget) (*models.Notification, error) {
	args := m.Called(ctx, action, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) GetNotifications(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

type mockFileRepo struct {
	mock.Mock
}

func (m *mockFileRepo) CreateFile(ctx context.Context, file *models.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *mockFileRepo) GetFileByID(ctx context.Context, fileID string) (*models.File, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.File), args.Error(1)
}

func (m *mockFileRepo) UpdateFileURL(ctx context.Context, fileID, url string) error {
	args := m.Called(ctx, fileID, url)
	return args.Error(0)
}

func (m *mockFileRepo) DeleteFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendEmailVerification(ctx context.Context, to mail.Recipient, verificationURL string) error {
	args := m.Called(ctx, to, verificationURL)
	return args.Error(0)
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to mail.Recipient, resetURL string) error {
	args := m.Called(ctx, to, resetURL)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) IsOnline(userID string) bool {
	args := m.Called(userID)
	return args.Bool(0)
}

func (m *mockNotifier) Emit(ctx context.Context, userID, event string, data interface{}) error {
	args := m.Called(ctx, userID, event, data)
	return args.Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) UploadImage(ctx context.Context, folder, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, folder, fileName, file, size)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) DeleteImage(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

func (m *mockStorage) GetImageURL(ctx context.Context, objectName string) (string, error) {
	args := m.Called(ctx, objectName)
	return args.String(0), args.Error(1)
}
