package service

import (
	"github.com/fouad-abdeen/SocialApp-Server/internal/auth"
	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	"github.com/fouad-abdeen/SocialApp-Server/internal/mail"
	"github.com/fouad-abdeen/SocialApp-Server/internal/realtime"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/storage"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Post         PostService
	Comment      CommentService
	Notification NotificationService
	File         FileService
}

func NewService(
	rep *repository.Repository,
	cfg *config.Config,
	blobStorage storage.Storage,
	mailer mail.Sender,
	notifier realtime.Notifier,
) *Service {
	codec := auth.NewTokenCodec(cfg.JWTSecretKey)
	hasher := auth.NewCredentialHasher(cfg.BcryptCost)

	notification := NewNotificationService(rep.Notification, notifier)

	return &Service{
		Auth:         NewAuthService(rep.User, codec, hasher, mailer, cfg),
		User:         NewUserService(rep.User, rep.File, blobStorage, notification),
		Post:         NewPostService(rep.Post, rep.Comment, rep.User, rep.File, blobStorage, notification),
		Comment:      NewCommentService(rep.Comment, rep.Post, notification),
		Notification: notification,
		File:         NewFileService(rep.File, blobStorage),
	}
}
