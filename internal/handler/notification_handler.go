package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	notifications, err := h.NotificationService.GetNotifications(r.Context(), user.UserID, paginationFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, notifications, http.StatusOK)
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	err := h.NotificationService.MarkNotificationRead(r.Context(), user.UserID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"message": "notification marked as read"}, http.StatusOK)
}
