package domain

import "time"

// Record is a single observed tree defect with its attached photos.
// UserID is the internal owner id and never leaves the server.
type Record struct {
	ID               string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           string        `json:"-" gorm:"column:user_id;type:varchar(36);not null;index"`
	DefectType       DefectType    `json:"defectType" gorm:"column:defect_type;type:varchar(64);not null"`
	Severity         int           `json:"severity" gorm:"not null"`
	Note             *string       `json:"note" gorm:"type:text"`
	Lat              *float64      `json:"lat"`
	Lng              *float64      `json:"lng"`
	LocationAccuracy *float64      `json:"locationAccuracy" gorm:"column:location_accuracy"`
	RecordedAt       *time.Time    `json:"recordedAt" gorm:"column:recorded_at"`
	CreatedAt        time.Time     `json:"createdAt" gorm:"column:created_at;not null;index"`
	Photos           []RecordPhoto `json:"photos" gorm:"foreignKey:RecordID"`
}

func (Record) TableName() string { return "records" }

// RecordPhoto is one stored photo file belonging to a record. Path is the
// public URL path under which the file is served.
type RecordPhoto struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecordID     string    `json:"-" gorm:"column:record_id;type:varchar(36);not null;index"`
	Path         string    `json:"path" gorm:"not null"`
	MimeType     string    `json:"mimeType" gorm:"column:mime_type;not null"`
	OriginalName string    `json:"-" gorm:"column:original_name"`
	SizeBytes    int64     `json:"sizeBytes" gorm:"column:size_bytes;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"column:created_at;not null"`
}

func (RecordPhoto) TableName() string { return "record_photos" }
