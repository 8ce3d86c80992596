package dto

import "time"

// SetConfigRequest is the DTO for writing a typed configuration value.
type SetConfigRequest struct {
	Value       string `json:"value"`
	ValueType   string `json:"value_type"`
	Description string `json:"description"`
}

// ConfigResponse is a configuration entry with its decoded value.
type ConfigResponse struct {
	Key         string      `json:"key"`
	Value       interface{} `json:"value"`
	ValueType   string      `json:"value_type"`
	Description string      `json:"description,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
