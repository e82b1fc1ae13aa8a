package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every API endpoint answers with. Warning carries
// the categorized feed warning when the data shown is degraded (fallback
// contacts, stale list) without the request itself having failed.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Warning string      `json:"warning,omitempty"`
}

func JSONResponse(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, Response{Success: false, Message: message})
}

func SuccessResponse(w http.ResponseWriter, statusCode int, data interface{}, message string) {
	JSONResponse(w, statusCode, Response{Success: true, Data: data, Message: message})
}

// WarningResponse is a success whose payload is degraded; the warning tells
// the UI what to surface.
func WarningResponse(w http.ResponseWriter, statusCode int, data interface{}, warning string) {
	JSONResponse(w, statusCode, Response{Success: true, Data: data, Warning: warning})
}
