package handlers

import (
	"net/http"

	"mydiary/internal/models"
)

type TagListResponse struct {
	Tags []models.Tag `json:"tags"`
}

func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	tags, err := h.TagService.ListForUser(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if tags == nil {
		tags = []models.Tag{}
	}

	writeSuccess(w, TagListResponse{Tags: tags}, http.StatusOK)
}
