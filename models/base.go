package models

import (
	"time"

	"gorm.io/gorm"
)

// Base stands in for gorm.Model so API payloads keep snake_case keys
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
