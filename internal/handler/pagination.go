package handlers

import (
	"net/http"
	"strconv"

	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
)

// paginationFromQuery reads the cursor parameters shared by all list
// endpoints. Invalid limits fall back to the repository default.
func paginationFromQuery(r *http.Request) repository.Pagination {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return repository.Pagination{
		Limit:          limit,
		LastDocumentID: r.URL.Query().Get("lastDocumentId"),
	}
}
