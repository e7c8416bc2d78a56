package handlers

import "net/http"

// ConnectSocket upgrades an authorized request to a WebSocket used for
// live notification delivery. Session checks happen in the middleware, so
// by this point the user is known.
func (h *Handlers) ConnectSocket(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, "authorization required", http.StatusUnauthorized)
		return
	}

	h.Hub.HandleSocket(w, r, user.UserID)
}
