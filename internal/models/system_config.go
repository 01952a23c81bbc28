package models

import "time"

// Config keys the engine reads.
const ConfigKeyFallbackRate = "fallback_tariff_rate"

// SystemConfig is a key/value store for system-wide settings such as the
// fallback tariff rate used when no rule matches.
type SystemConfig struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ConfigKey   string    `gorm:"size:100;uniqueIndex;not null" json:"config_key"`
	ConfigValue string    `gorm:"size:500;not null" json:"config_value"`
	ConfigType  string    `gorm:"size:20;default:'string'" json:"config_type"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
