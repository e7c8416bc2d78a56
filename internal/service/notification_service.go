package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/realtime"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
)

// notificationEvent is the websocket event name used for live delivery.
const notificationEvent = "notification"

// ContentActionNotification describes one raw action on a piece of
// content. ActingDocID is the id credited into the notification's actor
// set: the liker's user id for likes, the created comment's id for
// comments and replies. ActorID is always the acting user, used for the
// self-action guard.
type ContentActionNotification struct {
	RecipientID string
	ActorID     string
	ActingDocID string
	ContentType models.ContentType
	Action      models.NotificationAction
	PostID      string
	CommentID   string
	Content     string
}

type NotificationService interface {
	NotifyAboutFollowRequest(ctx context.Context, recipientID string, follower *models.User) error
	NotifyAboutActionOnContent(ctx context.Context, req ContentActionNotification) error
	RemoveNotificationAction(ctx context.Context, req ContentActionNotification) error
	RemoveNotificationsForTarget(ctx context.Context, metadata models.NotificationActionMetadata) error
	GetNotifications(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	notifier         realtime.Notifier
}

func NewNotificationService(notificationRepo repository.NotificationRepository, notifier realtime.Notifier) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

func contentActionMessage(action models.NotificationAction, contentType models.ContentType, count int, brief string) string {
	if count == 1 {
		return fmt.Sprintf("You have a new %s on your %s: %s", action.Verb(), contentType, brief)
	}
	return fmt.Sprintf("You have %d new %s on your %s: %s", count, action.PluralVerb(), contentType, brief)
}

func (s *notificationService) NotifyAboutFollowRequest(ctx context.Context, recipientID string, follower *models.User) error {
	if follower.UserID == recipientID {
		return nil
	}

	notification := &models.Notification{
		UserID:  recipientID,
		Content: fmt.Sprintf("%s started following you", follower.Username),
		Action:  models.ActionFollowRequest,
		ActionMetadata: models.NotificationActionMetadata{
			FollowerUsername: follower.Username,
			FollowingID:      recipientID,
		},
	}

	if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("creating follow notification: %w", err)
	}

	s.deliver(recipientID, notification)
	return nil
}

// NotifyAboutActionOnContent folds a like/comment/reply into at most one
// live notification per (action, target). Repeat delivery with an
// already-credited actor is a no-op; a notification that was read starts
// a fresh aggregation cycle instead of growing the old count.
func (s *notificationService) NotifyAboutActionOnContent(ctx context.Context, req ContentActionNotification) error {
	if req.ActorID == req.RecipientID {
		return nil
	}

	target := repository.NotificationTarget{PostID: req.PostID, CommentID: req.CommentID}
	existing, err := s.notificationRepo.GetNotificationByActionMetadata(ctx, req.Action, target)
	if err != nil {
		return fmt.Errorf("looking up notification: %w", err)
	}

	brief := truncateContent(req.Content)

	if existing == nil {
		notification := &models.Notification{
			UserID:  req.RecipientID,
			Content: contentActionMessage(req.Action, req.ContentType, 1, brief),
			Action:  req.Action,
			ActionMetadata: models.NotificationActionMetadata{
				ActionDatabaseDocuments: []string{req.ActingDocID},
				PostID:                  req.PostID,
				CommentID:               req.CommentID,
				ContentBrief:            brief,
			},
		}
		if err := s.notificationRepo.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("creating notification: %w", err)
		}
		s.deliver(req.RecipientID, notification)
		return nil
	}

	if existing.ActionMetadata.Credits(req.ActingDocID) {
		return nil
	}

	if existing.IsRead {
		// Read notifications are settled; the new action opens a new
		// cycle with only itself credited.
		existing.IsRead = false
		existing.ActionMetadata.ActionDatabaseDocuments = []string{req.ActingDocID}
		existing.ActionMetadata.ContentBrief = brief
		existing.Content = contentActionMessage(req.Action, req.ContentType, 1, brief)
	} else {
		existing.ActionMetadata.ActionDatabaseDocuments = append(existing.ActionMetadata.ActionDatabaseDocuments, req.ActingDocID)
		count := len(existing.ActionMetadata.ActionDatabaseDocuments)
		existing.Content = contentActionMessage(req.Action, req.ContentType, count, existing.ActionMetadata.ContentBrief)
	}

	if err := s.notificationRepo.UpdateNotification(ctx, existing); err != nil {
		return fmt.Errorf("updating notification: %w", err)
	}

	s.deliver(req.RecipientID, existing)
	return nil
}

// RemoveNotificationAction is the aggregation inverse: an undone action
// removes its credit, and the notification disappears entirely when the
// last credited actor backs out.
func (s *notificationService) RemoveNotificationAction(ctx context.Context, req ContentActionNotification) error {
	if req.ActorID == req.RecipientID {
		return nil
	}

	target := repository.NotificationTarget{PostID: req.PostID, CommentID: req.CommentID}
	existing, err := s.notificationRepo.GetNotificationByActionMetadata(ctx, req.Action, target)
	if err != nil {
		return fmt.Errorf("looking up notification: %w", err)
	}
	if existing == nil || !existing.ActionMetadata.Credits(req.ActingDocID) {
		return nil
	}

	if len(existing.ActionMetadata.ActionDatabaseDocuments) == 1 {
		if err := s.notificationRepo.DeleteNotification(ctx, existing.NotificationID); err != nil {
			return fmt.Errorf("deleting notification: %w", err)
		}
		return nil
	}

	remaining := make([]string, 0, len(existing.ActionMetadata.ActionDatabaseDocuments)-1)
	for _, doc := range existing.ActionMetadata.ActionDatabaseDocuments {
		if doc != req.ActingDocID {
			remaining = append(remaining, doc)
		}
	}
	existing.ActionMetadata.ActionDatabaseDocuments = remaining
	existing.Content = contentActionMessage(req.Action, req.ContentType, len(remaining), existing.ActionMetadata.ContentBrief)

	if err := s.notificationRepo.UpdateNotification(ctx, existing); err != nil {
		return fmt.Errorf("updating notification: %w", err)
	}

	return nil
}

// RemoveNotificationsForTarget drops every notification about a deleted
// post or comment.
func (s *notificationService) RemoveNotificationsForTarget(ctx context.Context, metadata models.NotificationActionMetadata) error {
	if metadata.PostID == "" && metadata.CommentID == "" {
		return nil
	}
	if err := s.notificationRepo.DeleteNotificationsByActionMetadata(ctx, metadata); err != nil {
		return fmt.Errorf("deleting notifications for target: %w", err)
	}
	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Notification, error) {
	return s.notificationRepo.GetNotifications(ctx, userID, pagination)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	err := s.notificationRepo.MarkNotificationRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: notification not found", ErrNotFound)
		}
		return err
	}
	return nil
}

// deliver pushes the notification to the recipient's open sockets.
// Fire-and-forget: delivery failure never rolls back the persisted
// notification.
func (s *notificationService) deliver(recipientID string, notification *models.Notification) {
	if s.notifier == nil || !s.notifier.IsOnline(recipientID) {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.Emit(ctx, recipientID, notificationEvent, notification); err != nil {
			log.Printf("failed to deliver notification %s to user %s: %v", notification.NotificationID, recipientID, err)
		}
	}()
}
