package handlers

import (
	"net/http"

	"mydiary/internal/logger"
)

type HealthResponse struct {
	Status      string `json:"status"`
	CountTables int    `json:"tables,omitempty"`
}

// HealthHandler reports database reachability with the number of tables in
// the public schema.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := h.TablesService.CountTables(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Warn("Проверка состояния не пройдена")
		writeSuccess(w, HealthResponse{Status: "unavailable"}, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, HealthResponse{Status: "ok", CountTables: count}, http.StatusOK)
}
