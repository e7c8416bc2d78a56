package app

import (
	"log"

	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	"github.com/fouad-abdeen/SocialApp-Server/internal/database"
	"github.com/fouad-abdeen/SocialApp-Server/internal/mail"
	"github.com/fouad-abdeen/SocialApp-Server/internal/realtime"
	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
	"github.com/fouad-abdeen/SocialApp-Server/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Hub      *realtime.Hub
}

// Build wires the infrastructure clients and services together. It fails
// fast on anything the server cannot run without.
func Build(cfg *config.Config) *App {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(&cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	mailer := mail.NewBrevoClient(&cfg.Mail)
	if !mailer.IsConfigured() {
		log.Println("Warning: mail client is not configured, emails will fail to send")
	}

	hub := realtime.NewHub()

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, mailer, hub)

	return &App{
		DB:       db,
		Repo:     repo,
		Services: services,
		Hub:      hub,
	}
}
