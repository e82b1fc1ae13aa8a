package handler

import (
	"net/http"
	"time"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/normalize"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/timeformat"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/utils"
)

// DebugExtract runs the timestamp codec over an arbitrary message body, for
// poking at feed samples without a browser console. Not part of the UI
// contract.
func (h *ViewerHandler) DebugExtract(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Missing text parameter")
		return
	}

	now := time.Now()
	ex := normalize.ExtractTimestamp(text)

	ts := ex.Timestamp
	if !ex.Found {
		ts = now
	}

	utils.SuccessResponse(w, http.StatusOK, map[string]any{
		"text":           ex.Text,
		"found":          ex.Found,
		"valid":          ex.Valid,
		"timestamp":      ts,
		"message_time":   timeformat.FormatMessageTime(ts, now),
		"date_separator": timeformat.FormatDateSeparator(ts, now),
		"last_message":   timeformat.FormatLastMessageTime(ts, now),
	}, "")
}
