package entity

import "time"

// HealthState classifies the outcome of a single health probe.
type HealthState string

const (
	HealthStateHealthy  HealthState = "HEALTHY"
	HealthStateDegraded HealthState = "DEGRADED"
	HealthStateDown     HealthState = "DOWN"
	HealthStateTimeout  HealthState = "TIMEOUT"
)

// ServiceHealthCheck is one observation made by the monitor.
type ServiceHealthCheck struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Service    string      `gorm:"not null;index" json:"service"`
	URL        string      `gorm:"not null" json:"url"`
	State      HealthState `gorm:"not null" json:"state"`
	HTTPStatus int         `json:"http_status"`
	LatencyMS  float64     `gorm:"column:latency_ms" json:"latency_ms"`
	Error      string      `json:"error"`
	CheckedAt  time.Time   `gorm:"not null;index" json:"checked_at"`
}

func (ServiceHealthCheck) TableName() string {
	return "service_health_checks"
}
