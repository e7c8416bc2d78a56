package handlers

import "net/http"

func (h *Handlers) GetFileURL(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("id")
	if fileID == "" {
		WriteError(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	url, err := h.FileService.GetFileURL(r.Context(), fileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]string{"url": url}, http.StatusOK)
}
