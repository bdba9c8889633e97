package common

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Status int    `json:"status"`
}

func RespondWithError(w http.ResponseWriter, status int, code, message string) {
	RespondWithJSON(w, status, ErrorResponse{Error: message, Code: code, Status: status})
}

// RespondWithDomainError translates a service error into the wire shape.
// Internal failures never leak their detail to the client.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	status := HTTPStatusFromError(err)
	if status == http.StatusInternalServerError {
		RespondWithError(w, status, "SERVER_ERROR", "An unexpected error occurred")
		return
	}
	RespondWithError(w, status, CodeFromError(err), err.Error())
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// LegacyResponse is the v1 envelope. The v2 API returns bare objects; the
// split is historical and kept as-is.
type LegacyResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func RespondLegacy(w http.ResponseWriter, status int, data interface{}) {
	RespondWithJSON(w, status, LegacyResponse{Success: true, Data: data})
}

func RespondLegacyError(w http.ResponseWriter, status int, message string) {
	RespondWithJSON(w, status, LegacyResponse{Success: false, Data: struct{}{}, Error: message})
}
