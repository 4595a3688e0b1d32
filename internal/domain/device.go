package domain

import "time"

// Device maps an opaque client token to a stable internal owner id. The
// token is upserted on first sight and never exposed in responses.
type Device struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Token     string    `json:"-" gorm:"uniqueIndex;type:varchar(128);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;not null"`
}

func (Device) TableName() string { return "devices" }
