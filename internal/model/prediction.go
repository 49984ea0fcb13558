package model

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction is a stored symptom-analysis result owned by a single user.
type Prediction struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"not null;index" json:"user_id"`
	Symptoms  string                      `gorm:"type:text;not null" json:"symptoms"`
	Diseases  datatypes.JSONSlice[string] `gorm:"type:json" json:"diseases"`
	Response  string                      `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time                   `json:"created_at"`
}
