package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/shopfront/internal/application"
	"github.com/ericfisherdev/shopfront/internal/domain/model"
)

// UpdateWidgetRequest is the PUT /chat-widget body.
type UpdateWidgetRequest struct {
	Enabled        bool   `json:"enabled"`
	Position       string `json:"position"`
	AccentColor    string `json:"accentColor"`
	Greeting       string `json:"greeting"`
	OfflineMessage string `json:"offlineMessage"`
}

/// GetWidget handles GET /chat-widget. Public: the storefront loads this on
// every page.
func (h *Handler) GetWidget(w http.ResponseWriter, r *http.Request) {
	view, err := h.widgetSvc.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load chat widget settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toWidgetResponse(view))
}

// UpdateWidget handles PUT /chat-widget. Admin only.
func (h *Handler) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	var req UpdateWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.widgetSvc.Update(r.Context(), model.ChatWidgetSettings{
		Enabled:        req.Enabled,
		Position:       req.Position,
		AccentColor:    req.AccentColor,
		Greeting:       req.Greeting,
		OfflineMessage: req.OfflineMessage,
	})
	if err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update chat widget settings", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toWidgetResponse(view))
}
