package httpapi

import (
	"log"
	"net/http"

	"eventhubble-backend-go/internal/services"
)

type HealthResponse struct {
	Status   string                `json:"status"`
	Database string                `json:"database"`
	Resource services.HealthSample `json:"resources"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "up",
		Resource: services.CaptureHealth(s.Config.MetricsDiskPath),
	}
	status := http.StatusOK
	if res := s.Store.Ping(r.Context()); !res.Success {
		resp.Status = "degraded"
		log.Printf("[HTTP][ERROR] health: database: %s", res.Error)
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, Envelope{Success: status == http.StatusOK, Data: resp})
}
