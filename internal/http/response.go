package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"eventhubble-backend-go/internal/services"
	"eventhubble-backend-go/internal/store"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Error: message})
}

// WriteResult writes a data access result with the status its kind maps to.
func WriteResult[T any](w http.ResponseWriter, status int, res store.Result[T]) {
	if !res.Success {
		writeStoreError(w, res.Kind, res.Error)
		return
	}
	WriteData(w, status, res.Data)
}

// writeFailure maps store and service errors; anything else is a 500.
func writeFailure(w http.ResponseWriter, err error) {
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		writeStoreError(w, storeErr.Kind, storeErr.Message)
		return
	}
	status, message := services.StatusOf(err)
	WriteError(w, status, message)
}

// writeStoreError hides backend failure detail from clients; the detail is
// logged instead.
func writeStoreError(w http.ResponseWriter, kind store.Kind, message string) {
	status := kind.Status()
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP][ERROR] %s: %s", kind, message)
		message = "Internal server error"
	}
	WriteError(w, status, message)
}
