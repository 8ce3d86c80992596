package entity

import "time"

// ConfigValueType is the discriminator for typed configuration values.
type ConfigValueType string

const (
	ConfigTypeString  ConfigValueType = "STRING"
	ConfigTypeNumber  ConfigValueType = "NUMBER"
	ConfigTypeBoolean ConfigValueType = "BOOLEAN"
	ConfigTypeJSON    ConfigValueType = "JSON"
)

type SystemConfig struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Key         string          `gorm:"column:config_key;not null;uniqueIndex" json:"key"`
	Value       string          `gorm:"column:config_value;not null" json:"value"`
	ValueType   ConfigValueType `gorm:"column:config_type;not null" json:"value_type"`
	Description string          `json:"description"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SystemConfig) TableName() string {
	return "system_config"
}
