package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
)

// commentEditWindow is how long a comment stays editable after creation.
const commentEditWindow = 30 * time.Minute

type CommentService interface {
	CommentOnPost(ctx context.Context, user *models.User, postID, content string) (*models.Comment, error)
	ReplyToComment(ctx context.Context, user *models.User, commentID, content string) (*models.Comment, error)
	GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error)
	GetPostComments(ctx context.Context, postID string, pagination repository.Pagination) ([]*models.Comment, error)
	GetCommentReplies(ctx context.Context, commentID string, pagination repository.Pagination) ([]*models.Comment, error)
	EditComment(ctx context.Context, user *models.User, commentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, user *models.User, commentID string) error
	LikeComment(ctx context.Context, user *models.User, commentID string) error
	UnlikeComment(ctx context.Context, user *models.User, commentID string) error
}

type commentService struct {
	commentRepo         repository.CommentRepository
	postRepo            repository.PostRepository
	notificationService NotificationService
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notificationService NotificationService,
) CommentService {
	return &commentService{
		commentRepo:         commentRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
	}
}

func (s *commentService) CommentOnPost(ctx context.Context, user *models.User, postID, content string) (*models.Comment, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: post not found", ErrNotFound)
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:  user.UserID,
		PostID:  postID,
		Content: content,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	appendComment := repository.NewUpdate().AppendToSet("comments", comment.CommentID)
	if _, err := s.postRepo.UpdatePost(ctx, postID, appendComment); err != nil {
		return nil, fmt.Errorf("linking comment to post: %w", err)
	}

	err = s.notificationService.NotifyAboutActionOnContent(ctx, ContentActionNotification{
		RecipientID: post.UserID,
		ActorID:     user.UserID,
		ActingDocID: comment.CommentID,
		ContentType: models.ContentTypePost,
		Action:      models.ActionPostComment,
		PostID:      postID,
		Content:     post.Content,
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *commentService) ReplyToComment(ctx context.Context, user *models.User, commentID, content string) (*models.Comment, error) {
	parent, err := s.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	// Threads are one level deep.
	if parent.ReplyTo != "" {
		return nil, fmt.Errorf("%w: you cannot reply to a reply", ErrValidation)
	}

	reply := &models.Comment{
		UserID:  user.UserID,
		PostID:  parent.PostID,
		Content: content,
		ReplyTo: commentID,
	}
	if err := s.commentRepo.CreateComment(ctx, reply); err != nil {
		return nil, err
	}

	appendReply := repository.NewUpdate().AppendToSet("replies", reply.CommentID)
	if _, err := s.commentRepo.UpdateComment(ctx, commentID, appendReply); err != nil {
		return nil, fmt.Errorf("linking reply to comment: %w", err)
	}

	err = s.notificationService.NotifyAboutActionOnContent(ctx, ContentActionNotification{
		RecipientID: parent.UserID,
		ActorID:     user.UserID,
		ActingDocID: reply.CommentID,
		ContentType: models.ContentTypeComment,
		Action:      models.ActionCommentReply,
		PostID:      parent.PostID,
		CommentID:   commentID,
		Content:     parent.Content,
	})
	if err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *commentService) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: comment not found", ErrNotFound)
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) GetPostComments(ctx context.Context, postID string, pagination repository.Pagination) ([]*models.Comment, error) {
	return s.commentRepo.GetPostComments(ctx, postID, pagination)
}

func (s *commentService) GetCommentReplies(ctx context.Context, commentID string, pagination repository.Pagination) ([]*models.Comment, error) {
	return s.commentRepo.GetCommentReplies(ctx, commentID, pagination)
}

func (s *commentService) EditComment(ctx context.Context, user *models.User, commentID, content string) (*models.Comment, error) {
	comment, err := s.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != user.UserID {
		return nil, fmt.Errorf("%w: you can only edit your own comments", ErrForbidden)
	}
	if time.Since(comment.CreatedAt) > commentEditWindow {
		return nil, fmt.Errorf("%w: comments can only be edited within 30 minutes of creation", ErrForbidden)
	}

	cmd := repository.NewUpdate().SetFields(map[string]interface{}{"content": content})
	updated, err := s.commentRepo.UpdateComment(ctx, commentID, cmd)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteComment removes the comment, its replies and every notification
// credit it produced. The credit removal is addressed to the owner of
// the content the comment sat on, since that is who the notification
// belongs to.
func (s *commentService) DeleteComment(ctx context.Context, user *models.User, commentID string) error {
	comment, err := s.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != user.UserID {
		return fmt.Errorf("%w: you can only delete your own comments", ErrForbidden)
	}

	if err := s.commentRepo.DeleteCommentReplies(ctx, commentID); err != nil {
		return err
	}

	metadata := models.NotificationActionMetadata{CommentID: commentID}
	if err := s.notificationService.RemoveNotificationsForTarget(ctx, metadata); err != nil {
		return err
	}

	if comment.ReplyTo == "" {
		post, err := s.postRepo.GetPostByID(ctx, comment.PostID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if post != nil {
			removeComment := repository.NewUpdate().RemoveFromSet("comments", commentID)
			if _, err := s.postRepo.UpdatePost(ctx, post.PostID, removeComment); err != nil {
				return fmt.Errorf("unlinking comment from post: %w", err)
			}

			err = s.notificationService.RemoveNotificationAction(ctx, ContentActionNotification{
				RecipientID: post.UserID,
				ActorID:     user.UserID,
				ActingDocID: commentID,
				ContentType: models.ContentTypePost,
				Action:      models.ActionPostComment,
				PostID:      post.PostID,
			})
			if err != nil {
				return err
			}
		}
	} else {
		parent, err := s.commentRepo.GetCommentByID(ctx, comment.ReplyTo)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if parent != nil {
			removeReply := repository.NewUpdate().RemoveFromSet("replies", commentID)
			if _, err := s.commentRepo.UpdateComment(ctx, parent.CommentID, removeReply); err != nil {
				return fmt.Errorf("unlinking reply from comment: %w", err)
			}

			err = s.notificationService.RemoveNotificationAction(ctx, ContentActionNotification{
				RecipientID: parent.UserID,
				ActorID:     user.UserID,
				ActingDocID: commentID,
				ContentType: models.ContentTypeComment,
				Action:      models.ActionCommentReply,
				PostID:      parent.PostID,
				CommentID:   parent.CommentID,
			})
			if err != nil {
				return err
			}
		}
	}

	return s.commentRepo.DeleteComment(ctx, commentID)
}

func (s *commentService) LikeComment(ctx context.Context, user *models.User, commentID string) error {
	comment, err := s.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	addLike := repository.NewUpdate().AppendToSet("likes", user.UserID)
	if _, err := s.commentRepo.UpdateComment(ctx, commentID, addLike); err != nil {
		return err
	}

	return s.notificationService.NotifyAboutActionOnContent(ctx, ContentActionNotification{
		RecipientID: comment.UserID,
		ActorID:     user.UserID,
		ActingDocID: user.UserID,
		ContentType: models.ContentTypeComment,
		Action:      models.ActionCommentLike,
		PostID:      comment.PostID,
		CommentID:   comment.CommentID,
		Content:     comment.Content,
	})
}

func (s *commentService) UnlikeComment(ctx context.Context, user *models.User, commentID string) error {
	comment, err := s.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	removeLike := repository.NewUpdate().RemoveFromSet("likes", user.UserID)
	if _, err := s.commentRepo.UpdateComment(ctx, commentID, removeLike); err != nil {
		return err
	}

	return s.notificationService.RemoveNotificationAction(ctx, ContentActionNotification{
		RecipientID: comment.UserID,
		ActorID:     user.UserID,
		ActingDocID: user.UserID,
		ContentType: models.ContentTypeComment,
		Action:      models.ActionCommentLike,
		PostID:      comment.PostID,
		CommentID:   comment.CommentID,
	})
}
