package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fouad-abdeen/SocialApp-Server/cmd/app"
	"github.com/fouad-abdeen/SocialApp-Server/internal/config"
	handlers "github.com/fouad-abdeen/SocialApp-Server/internal/handler"
	"github.com/fouad-abdeen/SocialApp-Server/internal/middleware"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	application := app.Build(cfg)
	defer application.DB.CloseDB()

	handler := handlers.NewHandlers(application.Services, application.Hub, cfg)

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/auth/signup", handler.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", handler.Logout).Methods(http.MethodGet)
	router.HandleFunc("/auth/user", handler.GetAuthenticatedUser).Methods(http.MethodGet)
	router.HandleFunc("/auth/email/verify", handler.VerifyEmail).Methods(http.MethodPut)
	router.HandleFunc("/auth/password", handler.RequestPasswordReset).Methods(http.MethodGet)
	router.HandleFunc("/auth/password", handler.ResetPassword).Methods(http.MethodPost)
	router.HandleFunc("/auth/password", handler.UpdatePassword).Methods(http.MethodPut)

	router.HandleFunc("/users/search", handler.SearchUsers).Methods(http.MethodGet)
	router.HandleFunc("/users", handler.GetUserByUsername).Methods(http.MethodGet)
	router.HandleFunc("/users/profile", handler.UpdateProfile).Methods(http.MethodPatch)
	router.HandleFunc("/users/followers", handler.GetFollowers).Methods(http.MethodGet)
	router.HandleFunc("/users/followings", handler.GetFollowings).Methods(http.MethodGet)
	router.HandleFunc("/users/avatar", handler.UploadAvatar).Methods(http.MethodPost)
	router.HandleFunc("/users/avatar", handler.RemoveAvatar).Methods(http.MethodDelete)
	router.HandleFunc("/users/{id}/follow", handler.FollowUser).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/unfollow", handler.UnfollowUser).Methods(http.MethodPost)

	router.HandleFunc("/posts", handler.SubmitPost).Methods(http.MethodPost)
	router.HandleFunc("/posts", handler.GetTimeline).Methods(http.MethodGet)
	router.HandleFunc("/posts/user/{userId}", handler.GetUserPosts).Methods(http.MethodGet)
	router.HandleFunc("/posts/{postId}", handler.GetPost).Methods(http.MethodGet)
	router.HandleFunc("/posts/{postId}", handler.EditPost).Methods(http.MethodPatch)
	router.HandleFunc("/posts/{postId}", handler.DeletePost).Methods(http.MethodDelete)
	router.HandleFunc("/posts/{postId}/like", handler.LikePost).Methods(http.MethodPost)
	router.HandleFunc("/posts/{postId}/like", handler.UnlikePost).Methods(http.MethodDelete)
	router.HandleFunc("/posts/{postId}/comment", handler.CommentOnPost).Methods(http.MethodPost)

	router.HandleFunc("/comments", handler.GetPostComments).Methods(http.MethodGet)
	router.HandleFunc("/comments/{commentId}/replies", handler.GetCommentReplies).Methods(http.MethodGet)
	router.HandleFunc("/comments/{commentId}/reply", handler.ReplyToComment).Methods(http.MethodPost)
	router.HandleFunc("/comments/{commentId}/like", handler.LikeComment).Methods(http.MethodPost)
	router.HandleFunc("/comments/{commentId}/like", handler.UnlikeComment).Methods(http.MethodDelete)
	router.HandleFunc("/comments/{commentId}", handler.EditComment).Methods(http.MethodPatch)
	router.HandleFunc("/comments/{commentId}", handler.DeleteComment).Methods(http.MethodDelete)

	router.HandleFunc("/notifications", handler.GetNotifications).Methods(http.MethodGet)
	router.HandleFunc("/notifications/{id}/read", handler.MarkNotificationRead).Methods(http.MethodPut)

	router.HandleFunc("/files", handler.GetFileURL).Methods(http.MethodGet)
	router.HandleFunc("/socket", handler.ConnectSocket).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.SessionMiddleware(application.Services.Auth, cfg),
		middleware.CORSMiddleware(cfg.Frontend.Origin),
		middleware.LoggingMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Server listening on %s", addr)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
