package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"faqforge/internal/domain/services"
	"faqforge/internal/httputil"
)

// OptionsHandler serves the console lookup tables backing the upload form.
type OptionsHandler struct {
	options services.OptionsService
	logger  *slog.Logger
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(options services.OptionsService, logger *slog.Logger) *OptionsHandler {
	return &OptionsHandler{options: options, logger: logger}
}

// ListConsoles retrieves all console options
// GET /api/options/console
func (h *OptionsHandler) ListConsoles(w http.ResponseWriter, r *http.Request) {
	consoles, err := h.options.ListConsoles(r.Context())
	if err != nil {
		h.logger.Error("list consoles failed", "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, consoles)
}

// ListSubConsoles retrieves the sub-console options for one console
// GET /api/options/subconsole/{id}
func (h *OptionsHandler) ListSubConsoles(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "console id must be an integer")
		return
	}

	subConsoles, err := h.options.ListSubConsoles(r.Context(), id)
	if err != nil {
		h.logger.Error("list sub-consoles failed", "console", id, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, subConsoles)
}
