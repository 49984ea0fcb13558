package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is one turn of a triage conversation. Rows are append-only;
// Diseases is only ever set on bot-authored turns.
type ChatMessage struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"not null;index" json:"user_id"`
	Sender    string                      `gorm:"size:16;not null;index" json:"sender"`
	Content   string                      `gorm:"type:text;not null" json:"content"`
	Diseases  datatypes.JSONSlice[string] `gorm:"type:json" json:"diseases,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
}
