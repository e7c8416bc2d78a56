package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fouad-abdeen/SocialApp-Server/internal/service"
)

// maxPostImageSize caps attached post images at 1MB.
const maxPostImageSize = 1 << 20

type postContentRequest struct {
	Content string `json:"content" validate:"required,max=3000"`
}

func (h *Handlers) SubmitPost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	req := service.SubmitPostRequest{}

	// Posts with an attached image arrive as multipart forms; text-only
	// posts may use either the form or a plain JSON body.
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
			WriteError(w, "post image is too large or the form is malformed", http.StatusBadRequest)
			return
		}
		req.Content = r.FormValue("content")

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			if header.Size > maxPostImageSize {
				WriteError(w, "post image must be at most 1MB", http.StatusBadRequest)
				return
			}
			req.Image = file
			req.ImageName = header.Filename
			req.ImageSize = header.Size
		}
	} else {
		var body postContentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteError(w, "invalid request body", http.StatusBadRequest)
			return
		}
		req.Content = body.Content
	}

	if err := h.Validate.Var(req.Content, "required,max=3000"); err != nil {
		WriteError(w, "post content is required and limited to 3000 characters", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.SubmitPost(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) GetTimeline(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	posts, err := h.PostService.GetTimeline(r.Context(), user, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPostByID(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.GetUserPosts(r.Context(), mux.Vars(r)["userId"], paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) EditPost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req postContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "post content is required and limited to 3000 characters", http.StatusBadRequest)
		return
	}

	post, err := h.PostService.EditPost(r.Context(), user, mux.Vars(r)["postId"], req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.PostService.DeletePost(r.Context(), user, mux.Vars(r)["postId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "post deleted"}, http.StatusOK)
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.PostService.LikePost(r.Context(), user, mux.Vars(r)["postId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "post liked"}, http.StatusOK)
}

func (h *Handlers) UnlikePost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.PostService.UnlikePost(r.Context(), user, mux.Vars(r)["postId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "post unliked"}, http.StatusOK)
}
