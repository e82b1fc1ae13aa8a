package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/config"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/feed"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/model"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/service"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/utils"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/websocket"
)

type ViewerHandler struct {
	Viewer *service.Viewer
	Hub    *websocket.Hub
	Config *config.Config
}

func NewViewerHandler(viewer *service.Viewer, hub *websocket.Hub, cfg *config.Config) *ViewerHandler {
	return &ViewerHandler{
		Viewer: viewer,
		Hub:    hub,
		Config: cfg,
	}
}

// GetContacts serves the current contact list. ?refresh=1 forces a
// synchronous re-fetch first (dropped if one is already in flight). A
// warning in the envelope means the list is the fallback set.
func (h *ViewerHandler) GetContacts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" {
		h.Viewer.RefreshContacts(r.Context())
	}

	contacts, warning := h.Viewer.Contacts()
	if warning != "" {
		utils.WarningResponse(w, http.StatusOK, contacts, warning)
		return
	}
	utils.SuccessResponse(w, http.StatusOK, contacts, "Contacts retrieved successfully")
}

// GetMessages selects the conversation named by wa_id and serves its
// normalized messages.
func (h *ViewerHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	waID := strings.TrimSpace(r.URL.Query().Get("wa_id"))
	if waID == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing wa_id parameter")
		return
	}

	messages, err := h.Viewer.LoadMessages(r.Context(), waID)
	if err != nil {
		utils.ErrorResponse(w, upstreamStatus(err), fetchWarning(err))
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	utils.SuccessResponse(w, http.StatusOK, messages, "Messages retrieved successfully")
}

// ExportChat serves a conversation as a downloadable JSON document.
func (h *ViewerHandler) ExportChat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	number := vars["number"]

	export, err := h.Viewer.ExportChat(r.Context(), number)
	if err != nil {
		var feedErr *feed.Error
		if errors.As(err, &feedErr) {
			utils.ErrorResponse(w, upstreamStatus(err), fetchWarning(err))
			return
		}
		utils.ErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	filename := fmt.Sprintf("chat_%s_%s.json", export.Contact.Number, export.ExportDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(export)
}

func (h *ViewerHandler) GetState(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, http.StatusOK, h.Viewer.Snapshot(), "")
}

func (h *ViewerHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, http.StatusOK, nil, "OK")
}

func (h *ViewerHandler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWs(h.Hub, w, r, h.Config.AllowedOrigins)
}

func upstreamStatus(err error) int {
	var feedErr *feed.Error
	if errors.As(err, &feedErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func fetchWarning(err error) string {
	var feedErr *feed.Error
	if errors.As(err, &feedErr) {
		return feedErr.Warning()
	}
	return err.Error()
}
