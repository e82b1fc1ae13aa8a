package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/config"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/feed"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/service"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/utils"
)

func newTestHandler(t *testing.T, contactsBody, messagesBody string) (*ViewerHandler, *mux.Router) {
	t.Helper()

	srvMux := http.NewServeMux()
	srvMux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(contactsBody))
	})
	srvMux.HandleFunc("/messages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(messagesBody))
	})
	srv := httptest.NewServer(srvMux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{PollInterval: time.Minute, AllowedOrigins: []string{"*"}}
	viewer := service.NewViewer(cfg, feed.NewClient(srv.URL+"/contacts", srv.URL+"/messages"), nil)
	viewer.RefreshContacts(context.Background())

	h := NewViewerHandler(viewer, nil, cfg)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/contacts", h.GetContacts).Methods("GET")
	api.HandleFunc("/messages", h.GetMessages).Methods("GET")
	api.HandleFunc("/chats/{number}/export", h.ExportChat).Methods("GET")
	api.HandleFunc("/state", h.GetState).Methods("GET")
	api.HandleFunc("/debug/extract", h.DebugExtract).Methods("GET")
	api.HandleFunc("/health", h.Health).Methods("GET")

	return h, router
}

func doRequest(t *testing.T, router *mux.Router, target string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp utils.Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("response is not the JSON envelope: %v", err)
	}
	return rec, resp
}

func TestGetContacts(t *testing.T) {
	_, router := newTestHandler(t, `[{"59896243943 | Lucas": []}]`, `[]`)

	rec, resp := doRequest(t, router, "/api/contacts")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status=%d success=%v", rec.Code, resp.Success)
	}
	if resp.Warning != "" {
		t.Errorf("unexpected warning %q", resp.Warning)
	}

	contacts, ok := resp.Data.([]any)
	if !ok || len(contacts) != 1 {
		t.Fatalf("data = %#v, want 1 contact", resp.Data)
	}
}

func TestGetContactsWarnsOnFallback(t *testing.T) {
	_, router := newTestHandler(t, `[]`, `[]`)

	rec, resp := doRequest(t, router, "/api/contacts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Warning == "" {
		t.Error("fallback data must carry a warning")
	}
	if contacts, ok := resp.Data.([]any); !ok || len(contacts) != 3 {
		t.Errorf("data = %#v, want the 3 placeholders", resp.Data)
	}
}

func TestGetMessages(t *testing.T) {
	_, router := newTestHandler(t,
		`[{"59896243943": []}]`,
		`[{"mensaje": "Cliente: hola °100"}, {"mensaje": "IA: buenas °200"}]`)

	rec, resp := doRequest(t, router, "/api/messages?wa_id=59896243943")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status=%d success=%v message=%q", rec.Code, resp.Success, resp.Message)
	}
	messages, ok := resp.Data.([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("data = %#v, want 2 messages", resp.Data)
	}
}

func TestGetMessagesRequiresWaID(t *testing.T) {
	_, router := newTestHandler(t, `[]`, `[]`)

	rec, resp := doRequest(t, router, "/api/messages")
	if rec.Code != http.StatusBadRequest || resp.Success {
		t.Fatalf("status=%d success=%v, want 400 failure", rec.Code, resp.Success)
	}
}

func TestExportChatDownload(t *testing.T) {
	_, router := newTestHandler(t,
		`[{"59896243943": []}]`,
		`[{"mensaje": "hola °100"}]`)

	req := httptest.NewRequest(http.MethodGet, "/api/chats/59896243943/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "chat_59896243943_") || !strings.Contains(disposition, ".json") {
		t.Errorf("Content-Disposition = %q", disposition)
	}

	var export service.ChatExport
	if err := json.NewDecoder(rec.Body).Decode(&export); err != nil {
		t.Fatalf("export body does not decode: %v", err)
	}
	if export.ID == "" || len(export.Messages) != 1 {
		t.Errorf("export = %+v", export)
	}
}

func TestExportChatUnknownContact(t *testing.T) {
	_, router := newTestHandler(t, `[{"59896243943": []}]`, `[]`)

	rec, resp := doRequest(t, router, "/api/chats/000/export")
	if rec.Code != http.StatusNotFound || resp.Success {
		t.Fatalf("status=%d success=%v, want 404 failure", rec.Code, resp.Success)
	}
}

func TestDebugExtract(t *testing.T) {
	_, router := newTestHandler(t, `[]`, `[]`)

	rec, resp := doRequest(t, router, "/api/debug/extract?text="+
		"Hola+%C2%B01762290761")
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status=%d success=%v", rec.Code, resp.Success)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %#v", resp.Data)
	}
	if data["text"] != "Hola" {
		t.Errorf("text = %v, want Hola", data["text"])
	}
	if data["found"] != true || data["valid"] != true {
		t.Errorf("found/valid = %v/%v", data["found"], data["valid"])
	}
	if data["message_time"] == "" || data["date_separator"] == "" {
		t.Error("formatted labels must be present")
	}
}

func TestDebugExtractRequiresText(t *testing.T) {
	_, router := newTestHandler(t, `[]`, `[]`)

	rec, _ := doRequest(t, router, "/api/debug/extract")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	_, router := newTestHandler(t, `[]`, `[]`)

	rec, resp := doRequest(t, router, "/api/health")
	if rec.Code != http.StatusOK || resp.Message != "OK" {
		t.Fatalf("status=%d message=%q", rec.Code, resp.Message)
	}
}
