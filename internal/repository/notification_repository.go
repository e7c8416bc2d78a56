package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.NotificationID == "" {
		notification.NotificationID = uuid.New().String()
	}

	query := `
		INSERT INTO notifications (notification_id, user_id, content, action, action_metadata, is_read)
		VALUES (:notification_id, :user_id, :content, :action, :action_metadata, :is_read)
	`

	_, err := r.db.NamedExecContext(ctx, query, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) UpdateNotification(ctx context.Context, notification *models.Notification) error {
	query := `
		UPDATE notifications
		SET content = :content, action_metadata = :action_metadata, is_read = :is_read, updated_at = NOW()
		WHERE notification_id = :notification_id
	`

	result, err := r.db.NamedExecContext(ctx, query, notification)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *notificationRepository) DeleteNotification(ctx context.Context, notificationID string) error {
	query := `DELETE FROM notifications WHERE notification_id = $1`

	result, err := r.db.ExecContext(ctx, query, notificationID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *notificationRepository) DeleteNotificationsByActionMetadata(ctx context.Context, metadata models.NotificationActionMetadata) error {
	query := `
		DELETE FROM notifications
		WHERE ($1 = '' OR action_metadata->>'postId' = $1)
		AND ($2 = '' OR action_metadata->>'commentId' = $2)
		AND ($1 <> '' OR $2 <> '')
	`

	_, err := r.db.ExecContext(ctx, query, metadata.PostID, metadata.CommentID)
	if err != nil {
		return fmt.Errorf("failed to delete notifications by action metadata: %w", err)
	}

	return nil
}

func (r *notificationRepository) GetNotificationByActionMetadata(ctx context.Context, action models.NotificationAction, target NotificationTarget) (*models.Notification, error) {
	var notification models.Notification

	query := `
		SELECT * FROM notifications
		WHERE action = $1
		AND COALESCE(action_metadata->>'postId', '') = $2
		AND COALESCE(action_metadata->>'commentId', '') = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &notification, query, action, target.PostID, target.CommentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification by action metadata: %w", err)
	}

	return &notification, nil
}

func (r *notificationRepository) GetNotifications(ctx context.Context, userID string, pagination Pagination) ([]*models.Notification, error) {
	pagination = pagination.Normalize()

	var notifications []*models.Notification

	query := `
		SELECT * FROM notifications
		WHERE user_id = $1
		AND ($2 = '' OR created_at < (SELECT created_at FROM notifications WHERE notification_id = $2))
		ORDER BY created_at DESC, notification_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &notifications, query, userID, pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, updated_at = NOW()
		WHERE notification_id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
