package records

import (
	"time"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
)

// CreateRecordInput carries the already-parsed form fields of POST /records.
type CreateRecordInput struct {
	DefectType       domain.DefectType
	Severity         int
	Note             *string
	Lat              *float64
	Lng              *float64
	LocationAccuracy *float64
	RecordedAt       *time.Time
}

// RecordListItem is the lightweight list representation: a cover photo path
// and a photo count instead of the full photo list.
type RecordListItem struct {
	ID               string            `json:"id"`
	DefectType       domain.DefectType `json:"defectType"`
	Severity         int               `json:"severity"`
	Note             *string           `json:"note"`
	Lat              *float64          `json:"lat"`
	Lng              *float64          `json:"lng"`
	LocationAccuracy *float64          `json:"locationAccuracy"`
	RecordedAt       *time.Time        `json:"recordedAt"`
	CreatedAt        time.Time         `json:"createdAt"`
	CoverPhotoPath   *string           `json:"coverPhotoPath"`
	PhotosCount      int64             `json:"photosCount"`
}

type ListRecordsResponse struct {
	Items   []RecordListItem `json:"items"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Days    int              `json:"days"`
	HasMore bool             `json:"hasMore"`
}

type DeleteRecordResponse struct {
	Status string `json:"status"`
}
