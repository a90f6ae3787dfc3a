package handlers

import (
	"net/http"

	"mydiary/internal/models"
)

const loginFailedMessage = "Неверный email или пароль"

type RegisterResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type LoginResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, RegisterResponse{
		UserID:   result.User.UserID,
		Username: result.User.Username,
		Email:    result.User.Email,
		Token:    result.Token,
	}, http.StatusCreated)
}

// Login answers every authentication failure with the same 400 message.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	result, err := h.AuthService.Login(r.Context(), req)
	if err != nil {
		WriteError(w, loginFailedMessage, http.StatusBadRequest)
		return
	}

	writeSuccess(w, LoginResponse{
		UserID:   result.User.UserID,
		Username: result.User.Username,
		Token:    result.Token,
	}, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.AuthService.Logout(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
