package demoapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the wire wrapper on every demo service response, matching the
// contract the mobile client consumes.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WriteData writes a successful envelope with the given payload.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failed envelope with the given message.
func WriteError(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Success: false, Error: message})
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response envelope", "error", err)
	}
}
