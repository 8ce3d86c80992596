package dto

import "time"

// ServiceStatus is the latest observation for one monitored service.
type ServiceStatus struct {
	Service    string    `json:"service"`
	State      string    `json:"state"`
	HTTPStatus int       `json:"http_status"`
	LatencyMS  float64   `json:"latency_ms"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	Uptime24h  float64   `json:"uptime_24h"`
}

// StatusResponse is the fleet-wide status report.
type StatusResponse struct {
	Overall  string          `json:"overall"`
	Services []ServiceStatus `json:"services"`
}

// HistoryEntry is one stored health observation.
type HistoryEntry struct {
	State      string    `json:"state"`
	HTTPStatus int       `json:"http_status"`
	LatencyMS  float64   `json:"latency_ms"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// HistoryResponse is a service's recent observations, newest first.
type HistoryResponse struct {
	Service string         `json:"service"`
	Checks  []HistoryEntry `json:"checks"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
