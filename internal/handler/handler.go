package handlers

import (
	"github.com/go-playground/validator/v10"

	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	"github.com/fouad-abdeen/SocialApp-Server/internal/realtime"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

type Handlers struct {
	AuthService         service.AuthService
	UserService         service.UserService
	PostService         service.PostService
	CommentService      service.CommentService
	NotificationService service.NotificationService
	FileService         service.FileService
	Hub                 *realtime.Hub
	Cfg                 *config.Config
	Validate            *validator.Validate
}

func NewHandlers(service *service.Service, hub *realtime.Hub, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:         service.Auth,
		UserService:         service.User,
		PostService:         service.Post,
		CommentService:      service.Comment,
		NotificationService: service.Notification,
		FileService:         service.File,
		Hub:                 hub,
		Cfg:                 config,
		Validate:            validator.New(),
	}
}
