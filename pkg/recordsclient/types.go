package recordsclient

import "time"

// RecordListItem mirrors one row of the list response.
type RecordListItem struct {
	ID               string     `json:"id"`
	DefectType       string     `json:"defectType"`
	Severity         int        `json:"severity"`
	Note             *string    `json:"note"`
	Lat              *float64   `json:"lat"`
	Lng              *float64   `json:"lng"`
	LocationAccuracy *float64   `json:"locationAccuracy"`
	RecordedAt       *time.Time `json:"recordedAt"`
	CreatedAt        time.Time  `json:"createdAt"`
	CoverPhotoPath   *string    `json:"coverPhotoPath"`
	PhotosCount      int64      `json:"photosCount"`
}

type ListRecordsResponse struct {
	Items   []RecordListItem `json:"items"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Days    int              `json:"days"`
	HasMore bool             `json:"hasMore"`
}

type RecordPhoto struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordDetail is the full aggregate returned by get/create.
type RecordDetail struct {
	ID               string        `json:"id"`
	DefectType       string        `json:"defectType"`
	Severity         int           `json:"severity"`
	Note             *string       `json:"note"`
	Lat              *float64      `json:"lat"`
	Lng              *float64      `json:"lng"`
	LocationAccuracy *float64      `json:"locationAccuracy"`
	RecordedAt       *time.Time    `json:"recordedAt"`
	CreatedAt        time.Time     `json:"createdAt"`
	Photos           []RecordPhoto `json:"photos"`
}

type DefectTypeItem struct {
	Key      string `json:"key"`
	Category string `json:"category"`
}

type DeleteAck struct {
	Status string `json:"status"`
}

// Sort parameter values.
const (
	SortByCreatedAt = "createdAt"
	SortBySeverity  = "severity"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)
