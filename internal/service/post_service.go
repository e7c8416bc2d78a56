package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/storage"
)

// postEditWindow is how long a post stays editable after creation.
const postEditWindow = time.Hour

type SubmitPostRequest struct {
	Content   string
	ImageName string
	Image     io.Reader
	ImageSize int64
}

type PostService interface {
	SubmitPost(ctx context.Context, user *models.User, req SubmitPostRequest) (*models.Post, error)
	GetPostByID(ctx context.Context, postID string) (*models.Post, error)
	GetTimeline(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.Post, error)
	GetUserPosts(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Post, error)
	EditPost(ctx context.Context, user *models.User, postID, content string) (*models.Post, error)
	DeletePost(ctx context.Context, user *models.User, postID string) error
	LikePost(ctx context.Context, user *models.User, postID string) error
	UnlikePost(ctx context.Context, user *models.User, postID string) error
}

type postService struct {
	postRepo            repository.PostRepository
	commentRepo         repository.CommentRepository
	userRepo            repository.UserRepository
	fileRepo            repository.FileRepository
	storage             storage.Storage
	notificationService NotificationService
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	fileRepo repository.FileRepository,
	blobStorage storage.Storage,
	notificationService NotificationService,
) PostService {
	return &postService{
		postRepo:            postRepo,
		commentRepo:         commentRepo,
		userRepo:            userRepo,
		fileRepo:            fileRepo,
		storage:             blobStorage,
		notificationService: notificationService,
	}
}

func (s *postService) SubmitPost(ctx context.Context, user *models.User, req SubmitPostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:  user.UserID,
		Content: req.Content,
	}

	if req.Image != nil {
		objectName, err := s.storage.UploadImage(ctx, "posts", req.ImageName, req.Image, req.ImageSize)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedFileType) {
				return nil, fmt.Errorf("%w: unsupported image type", ErrValidation)
			}
			return nil, fmt.Errorf("uploading post image: %w", err)
		}

		url, err := s.storage.GetImageURL(ctx, objectName)
		if err != nil {
			return nil, fmt.Errorf("signing post image url: %w", err)
		}

		record := &models.File{Key: objectName, URL: url}
		if err := s.fileRepo.CreateFile(ctx, record); err != nil {
			return nil, fmt.Errorf("recording post image file: %w", err)
		}
		post.Image = record.FileID
	}

	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	appendPost := repository.NewUpdate().AppendToSet("posts", post.PostID)
	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, appendPost); err != nil {
		return nil, fmt.Errorf("linking post to user: %w", err)
	}

	return post, nil
}

func (s *postService) GetPostByID(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: post not found", ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

// GetTimeline returns the recent posts of the user and everyone they
// follow.
func (s *postService) GetTimeline(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.Post, error) {
	authorIDs := append([]string{user.UserID}, user.Followings...)
	return s.postRepo.GetTimelinePosts(ctx, authorIDs, pagination)
}

func (s *postService) GetUserPosts(ctx context.Context, userID string, pagination repository.Pagination) ([]*models.Post, error) {
	return s.postRepo.GetUserPosts(ctx, userID, pagination)
}

func (s *postService) EditPost(ctx context.Context, user *models.User, postID, content string) (*models.Post, error) {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.UserID != user.UserID {
		return nil, fmt.Errorf("%w: you can only edit your own posts", ErrForbidden)
	}
	if time.Since(post.CreatedAt) > postEditWindow {
		return nil, fmt.Errorf("%w: posts can only be edited within an hour of creation", ErrForbidden)
	}

	cmd := repository.NewUpdate().SetFields(map[string]interface{}{"content": content})
	updated, err := s.postRepo.UpdatePost(ctx, postID, cmd)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeletePost removes the post along with its comments, its notifications
// (including those of its comments, which carry the post id in their
// metadata) and its image.
func (s *postService) DeletePost(ctx context.Context, user *models.User, postID string) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != user.UserID {
		return fmt.Errorf("%w: you can only delete your own posts", ErrForbidden)
	}

	if err := s.commentRepo.DeletePostComments(ctx, postID); err != nil {
		return err
	}

	metadata := models.NotificationActionMetadata{PostID: postID}
	if err := s.notificationService.RemoveNotificationsForTarget(ctx, metadata); err != nil {
		return err
	}

	if err := s.postRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	removePost := repository.NewUpdate().RemoveFromSet("posts", postID)
	if _, err := s.userRepo.UpdateUser(ctx, user.UserID, removePost); err != nil {
		return fmt.Errorf("unlinking post from user: %w", err)
	}

	if post.Image != "" {
		s.cleanupImage(post.Image)
	}

	return nil
}

func (s *postService) LikePost(ctx context.Context, user *models.User, postID string) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	addLike := repository.NewUpdate().AppendToSet("likes", user.UserID)
	if _, err := s.postRepo.UpdatePost(ctx, postID, addLike); err != nil {
		return err
	}

	return s.notificationService.NotifyAboutActionOnContent(ctx, ContentActionNotification{
		RecipientID: post.UserID,
		ActorID:     user.UserID,
		ActingDocID: user.UserID,
		ContentType: models.ContentTypePost,
		Action:      models.ActionPostLike,
		PostID:      post.PostID,
		Content:     post.Content,
	})
}

func (s *postService) UnlikePost(ctx context.Context, user *models.User, postID string) error {
	post, err := s.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	removeLike := repository.NewUpdate().RemoveFromSet("likes", user.UserID)
	if _, err := s.postRepo.UpdatePost(ctx, postID, removeLike); err != nil {
		return err
	}

	return s.notificationService.RemoveNotificationAction(ctx, ContentActionNotification{
		RecipientID: post.UserID,
		ActorID:     user.UserID,
		ActingDocID: user.UserID,
		ContentType: models.ContentTypePost,
		Action:      models.ActionPostLike,
		PostID:      post.PostID,
	})
}

func (s *postService) cleanupImage(fileID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		record, err := s.fileRepo.GetFileByID(ctx, fileID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Printf("failed to look up post image %s: %v", fileID, err)
			}
			return
		}

		if err := s.storage.DeleteImage(ctx, record.Key); err != nil {
			log.Printf("failed to delete post image object %s: %v", record.Key, err)
		}
		if err := s.fileRepo.DeleteFile(ctx, fileID); err != nil {
			log.Printf("failed to delete post image record %s: %v", fileID, err)
		}
	}()
}
