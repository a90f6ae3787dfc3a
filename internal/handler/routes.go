package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers every endpoint on a single gorilla/mux router, so unknown
// paths and methods all reach the JSON 404 and 405 handlers below.
func (h *Handlers) Routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", h.Logout).Methods(http.MethodPost)

	router.HandleFunc("/api/diaries", h.ListDiaries).Methods(http.MethodGet)
	router.HandleFunc("/api/diaries", h.CreateDiary).Methods(http.MethodPost)
	router.HandleFunc("/api/diaries/{id}", h.GetDiary).Methods(http.MethodGet)
	router.HandleFunc("/api/diaries/{id}", h.UpdateDiary).Methods(http.MethodPut)
	router.HandleFunc("/api/diaries/{id}", h.DeleteDiary).Methods(http.MethodDelete)
	router.HandleFunc("/api/tags", h.ListTags).Methods(http.MethodGet)
	router.HandleFunc("/api/me", h.GetCurrentUser).Methods(http.MethodGet)
	router.HandleFunc("/api/me", h.UpdateSettings).Methods(http.MethodPut)
	router.HandleFunc("/api/me", h.DeleteAccount).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Ресурс не найден", http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return router
}
