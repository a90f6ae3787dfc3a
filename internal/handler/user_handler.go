package handlers

import (
	"net/http"
	"time"

	"mydiary/internal/models"
)

type ProfileResponse struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Theme        string    `json:"theme"`
	ReminderTime *string   `json:"reminderTime"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toProfile(user *models.User) ProfileResponse {
	return ProfileResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		Theme:        user.Theme,
		ReminderTime: user.ReminderTime,
		CreatedAt:    user.CreatedAt,
	}
}

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, toProfile(user), http.StatusOK)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.UserService.UpdateSettings(r.Context(), p.UserID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, toProfile(user), http.StatusOK)
}

func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteAccount(r.Context(), p.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
