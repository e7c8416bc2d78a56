package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type commentContentRequest struct {
	Content string `json:"content" validate:"required,min=5,max=1000"`
}

func (h *Handlers) CommentOnPost(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req commentContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "comment content must be between 5 and 1000 characters", http.StatusBadRequest)
		return
	}

	comment, err := h.CommentService.CommentOnPost(r.Context(), user, mux.Vars(r)["postId"], req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comment, http.StatusCreated)
}

func (h *Handlers) ReplyToComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req commentContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "reply content must be between 5 and 1000 characters", http.StatusBadRequest)
		return
	}

	reply, err := h.CommentService.ReplyToComment(r.Context(), user, mux.Vars(r)["commentId"], req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, reply, http.StatusCreated)
}

func (h *Handlers) GetPostComments(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		WriteError(w, "postId query parameter is required", http.StatusBadRequest)
		return
	}

	comments, err := h.CommentService.GetPostComments(r.Context(), postID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) GetCommentReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.CommentService.GetCommentReplies(r.Context(), mux.Vars(r)["commentId"], paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, replies, http.StatusOK)
}

func (h *Handlers) EditComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	var req commentContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "comment content must be between 5 and 1000 characters", http.StatusBadRequest)
		return
	}

	comment, err := h.CommentService.EditComment(r.Context(), user, mux.Vars(r)["commentId"], req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, comment, http.StatusOK)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.CommentService.DeleteComment(r.Context(), user, mux.Vars(r)["commentId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "comment deleted"}, http.StatusOK)
}

func (h *Handlers) LikeComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.CommentService.LikeComment(r.Context(), user, mux.Vars(r)["commentId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "comment liked"}, http.StatusOK)
}

func (h *Handlers) UnlikeComment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	if err := h.CommentService.UnlikeComment(r.Context(), user, mux.Vars(r)["commentId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "comment unliked"}, http.StatusOK)
}
