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

// avatarUpdateInterval is the minimum time between avatar changes.
const avatarUpdateInterval = 2 * time.Minute

type UpdateProfileRequest struct {
	FirstName string
	LastName  string
	Bio       string
}

type UserService interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SearchUsers(ctx context.Context, usernamePrefix string, pagination repository.Pagination) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error)
	FollowUser(ctx context.Context, follower *models.User, followingID string) error
	UnfollowUser(ctx context.Context, follower *models.User, followingID string) error
	GetFollowers(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.User, error)
	GetFollowings(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.User, error)
	UploadAvatar(ctx context.Context, user *models.User, fileName string, file io.Reader, size int64) (*models.User, error)
	RemoveAvatar(ctx context.Context, user *models.User) (*models.User, error)
}

type userService struct {
	userRepo            repository.UserRepository
	fileRepo            repository.FileRepository
	storage             storage.Storage
	notificationService NotificationService
}

func NewUserService(
	userRepo repository.UserRepository,
	fileRepo repository.FileRepository,
	blobStorage storage.Storage,
	notificationService NotificationService,
) UserService {
	return &userService{
		userRepo:            userRepo,
		fileRepo:            fileRepo,
		storage:             blobStorage,
		notificationService: notificationService,
	}
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) SearchUsers(ctx context.Context, usernamePrefix string, pagination repository.Pagination) ([]*models.User, error) {
	if usernamePrefix == "" {
		return nil, fmt.Errorf("%w: search term is required", ErrValidation)
	}
	return s.userRepo.SearchUsersByUsername(ctx, usernamePrefix, pagination)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	cmd := repository.NewUpdate().SetFields(map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"bio":        req.Bio,
	})

	user, err := s.userRepo.UpdateUser(ctx, userID, cmd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}

	return user, nil
}

// FollowUser links two users. The two documents are updated one after the
// other; when the second update fails, the first is reverted so a
// one-sided follow never survives. A failed revert is surfaced to the
// caller instead of being swallowed.
func (s *userService) FollowUser(ctx context.Context, follower *models.User, followingID string) error {
	if follower.UserID == followingID {
		return fmt.Errorf("%w: you cannot follow yourself", ErrValidation)
	}

	following, err := s.userRepo.GetUserByID(ctx, followingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	for _, id := range follower.Followings {
		if id == followingID {
			return fmt.Errorf("%w: already following this user", ErrConflict)
		}
	}

	addFollowing := repository.NewUpdate().AppendToSet("followings", followingID)
	if _, err := s.userRepo.UpdateUser(ctx, follower.UserID, addFollowing); err != nil {
		return fmt.Errorf("updating followings: %w", err)
	}

	addFollower := repository.NewUpdate().AppendToSet("followers", follower.UserID)
	if _, err := s.userRepo.UpdateUser(ctx, following.UserID, addFollower); err != nil {
		revert := repository.NewUpdate().RemoveFromSet("followings", followingID)
		if _, revertErr := s.userRepo.UpdateUser(ctx, follower.UserID, revert); revertErr != nil {
			return fmt.Errorf("updating followers failed (%v) and reverting followings failed: %w", err, revertErr)
		}
		return fmt.Errorf("updating followers: %w", err)
	}

	if err := s.notificationService.NotifyAboutFollowRequest(ctx, following.UserID, follower); err != nil {
		log.Printf("failed to notify user %s about follow request: %v", following.UserID, err)
	}

	return nil
}

// UnfollowUser is the mirror saga of FollowUser.
func (s *userService) UnfollowUser(ctx context.Context, follower *models.User, followingID string) error {
	if follower.UserID == followingID {
		return fmt.Errorf("%w: you cannot unfollow yourself", ErrValidation)
	}

	following, err := s.userRepo.GetUserByID(ctx, followingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	isFollowing := false
	for _, id := range follower.Followings {
		if id == followingID {
			isFollowing = true
			break
		}
	}
	if !isFollowing {
		return fmt.Errorf("%w: you are not following this user", ErrConflict)
	}

	removeFollowing := repository.NewUpdate().RemoveFromSet("followings", followingID)
	if _, err := s.userRepo.UpdateUser(ctx, follower.UserID, removeFollowing); err != nil {
		return fmt.Errorf("updating followings: %w", err)
	}

	removeFollower := repository.NewUpdate().RemoveFromSet("followers", follower.UserID)
	if _, err := s.userRepo.UpdateUser(ctx, following.UserID, removeFollower); err != nil {
		revert := repository.NewUpdate().AppendToSet("followings", followingID)
		if _, revertErr := s.userRepo.UpdateUser(ctx, follower.UserID, revert); revertErr != nil {
			return fmt.Errorf("updating followers failed (%v) and reverting followings failed: %w", err, revertErr)
		}
		return fmt.Errorf("updating followers: %w", err)
	}

	return nil
}

func (s *userService) GetFollowers(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.User, error) {
	if len(user.Followers) == 0 {
		return []*models.User{}, nil
	}
	return s.userRepo.GetUsersByIDs(ctx, user.Followers, pagination)
}

func (s *userService) GetFollowings(ctx context.Context, user *models.User, pagination repository.Pagination) ([]*models.User, error) {
	if len(user.Followings) == 0 {
		return []*models.User{}, nil
	}
	return s.userRepo.GetUsersByIDs(ctx, user.Followings, pagination)
}

// UploadAvatar replaces the user's avatar image. Updates are throttled
// to one per two minutes; the previous image and its file record are
// cleaned up best-effort after the new one is in place.
func (s *userService) UploadAvatar(ctx context.Context, user *models.User, fileName string, file io.Reader, size int64) (*models.User, error) {
	now := time.Now().UnixMilli()
	if user.AvatarUpdatedAt > 0 && now-user.AvatarUpdatedAt < avatarUpdateInterval.Milliseconds() {
		return nil, fmt.Errorf("%w: avatar can only be updated once every 2 minutes", ErrValidation)
	}

	objectName, err := s.storage.UploadImage(ctx, "avatars", fileName, file, size)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) {
			return nil, fmt.Errorf("%w: unsupported image type", ErrValidation)
		}
		return nil, fmt.Errorf("uploading avatar: %w", err)
	}

	url, err := s.storage.GetImageURL(ctx, objectName)
	if err != nil {
		return nil, fmt.Errorf("signing avatar url: %w", err)
	}

	record := &models.File{Key: objectName, URL: url}
	if err := s.fileRepo.CreateFile(ctx, record); err != nil {
		return nil, fmt.Errorf("recording avatar file: %w", err)
	}

	oldAvatar := user.Avatar

	cmd := repository.NewUpdate().SetFields(map[string]interface{}{
		"avatar":            record.FileID,
		"avatar_updated_at": now,
	})
	updated, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd)
	if err != nil {
		return nil, fmt.Errorf("updating avatar: %w", err)
	}

	if oldAvatar != "" {
		s.cleanupFile(oldAvatar)
	}

	return updated, nil
}

func (s *userService) RemoveAvatar(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Avatar == "" {
		return nil, fmt.Errorf("%w: no avatar to remove", ErrValidation)
	}

	cmd := repository.NewUpdate().SetFields(map[string]interface{}{
		"avatar":            "",
		"avatar_updated_at": time.Now().UnixMilli(),
	})
	updated, err := s.userRepo.UpdateUser(ctx, user.UserID, cmd)
	if err != nil {
		return nil, fmt.Errorf("removing avatar: %w", err)
	}

	s.cleanupFile(user.Avatar)

	return updated, nil
}

// cleanupFile removes a replaced image and its record in a detached
// task; an orphaned object is tolerable, a failed primary operation is
// not.
func (s *userService) cleanupFile(fileID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		record, err := s.fileRepo.GetFileByID(ctx, fileID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Printf("failed to look up replaced file %s: %v", fileID, err)
			}
			return
		}

		if err := s.storage.DeleteImage(ctx, record.Key); err != nil {
			log.Printf("failed to delete replaced object %s: %v", record.Key, err)
		}
		if err := s.fileRepo.DeleteFile(ctx, fileID); err != nil {
			log.Printf("failed to delete replaced file record %s: %v", fileID, err)
		}
	}()
}
