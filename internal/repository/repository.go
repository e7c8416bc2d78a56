package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
)

// Pagination is an id-based cursor: results are ordered by creation time
// descending, and LastDocumentID points at the last document of the
// previous page.
type Pagination struct {
	Limit          int
	LastDocumentID string
}

const defaultPageLimit = 5

func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	return p
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []string, pagination Pagination) ([]*models.User, error)
	SearchUsersByUsername(ctx context.Context, usernamePrefix string, pagination Pagination) ([]*models.User, error)
	UpdateUser(ctx context.Context, userID string, cmd *UpdateCommand) (*models.User, error)
	PruneDenylistedTokens(ctx context.Context, userID string, nowUnix int64) error
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, postID string) (*models.Post, error)
	GetTimelinePosts(ctx context.Context, userIDs []string, pagination Pagination) ([]*models.Post, error)
	GetUserPosts(ctx context.Context, userID string, pagination Pagination) ([]*models.Post, error)
	UpdatePost(ctx context.Context, postID string, cmd *UpdateCommand) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID string, pagination Pagination) ([]*models.Comment, error)
	GetCommentReplies(ctx context.Context, commentID string, pagination Pagination) ([]*models.Comment, error)
	UpdateComment(ctx context.Context, commentID string, cmd *UpdateCommand) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
	DeletePostComments(ctx context.Context, postID string) error
	DeleteCommentReplies(ctx context.Context, commentID string) error
}

// NotificationTarget scopes a notification lookup to the exact content
// item it is about.
type NotificationTarget struct {
	PostID    string
	CommentID string
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotification(ctx context.Context, notification *models.Notification) error
	DeleteNotification(ctx context.Context, notificationID string) error
	DeleteNotificationsByActionMetadata(ctx context.Context, metadata models.NotificationActionMetadata) error
	// GetNotificationByActionMetadata returns (nil, nil) when no
	// notification matches the action/target pair.
	GetNotificationByActionMetadata(ctx context.Context, action models.NotificationAction, target NotificationTarget) (*models.Notification, error)
	GetNotifications(ctx context.Context, userID string, pagination Pagination) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}

type FileRepository interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFileByID(ctx context.Context, fileID string) (*models.File, error)
	UpdateFileURL(ctx context.Context, fileID, url string) error
	DeleteFile(ctx context.Context, fileID string) error
}

type Repository struct {
	User         UserRepository
	Post         PostRepository
	Comment      CommentRepository
	Notification NotificationRepository
	File         FileRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:         NewUserRepository(db),
		Post:         NewPostRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
		File:         NewFileRepository(db),
	}
}
