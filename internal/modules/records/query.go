package records

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	defaultDays  = 30
)

var allowedDays = map[int]bool{7: true, 14: true, 30: true}

// ListQuery is the normalized filter/sort/pagination input of GET /records.
type ListQuery struct {
	DefectTypes []domain.DefectType
	MinSeverity *int
	MaxSeverity *int
	HasLocation *bool
	Days        int
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

// ParseListQuery reads and validates the list query parameters, applying the
// documented defaults. It returns the parsed query and a field -> message map
// of every violation found; a non-empty map means the request must be
// rejected before any handler logic runs.
func ParseListQuery(c *gin.Context) (ListQuery, map[string]string) {
	q := ListQuery{
		Days:   defaultDays,
		SortBy: repository.SortByCreatedAt,
		Order:  repository.OrderDesc,
		Limit:  defaultLimit,
		Offset: 0,
	}
	fieldErrors := make(map[string]string)

	// Repeated defectType params collapse into a set; order is irrelevant.
	seen := make(map[domain.DefectType]bool)
	for _, raw := range c.QueryArray("defectType") {
		dt := domain.DefectType(raw)
		if !dt.Valid() {
			fieldErrors["defectType"] = "defectType must be a valid defect type"
			continue
		}
		if !seen[dt] {
			seen[dt] = true
			q.DefectTypes = append(q.DefectTypes, dt)
		}
	}

	if raw := c.Query("minSeverity"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 5 {
			fieldErrors["minSeverity"] = "minSeverity must be between 1 and 5"
		} else {
			q.MinSeverity = &v
		}
	}
	if raw := c.Query("maxSeverity"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 5 {
			fieldErrors["maxSeverity"] = "maxSeverity must be between 1 and 5"
		} else {
			q.MaxSeverity = &v
		}
	}

	if raw := c.Query("hasLocation"); raw != "" {
		switch raw {
		case "true":
			v := true
			q.HasLocation = &v
		case "false":
			v := false
			q.HasLocation = &v
		default:
			fieldErrors["hasLocation"] = "hasLocation must be a boolean (true/false)"
		}
	}

	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || !allowedDays[v] {
			fieldErrors["days"] = "days must be one of: 7, 14, 30"
		} else {
			q.Days = v
		}
	}

	if raw := c.Query("sortBy"); raw != "" {
		if raw != repository.SortByCreatedAt && raw != repository.SortBySeverity {
			fieldErrors["sortBy"] = "sortBy must be one of: createdAt, severity"
		} else {
			q.SortBy = raw
		}
	}
	if raw := c.Query("order"); raw != "" {
		if raw != repository.OrderAsc && raw != repository.OrderDesc {
			fieldErrors["order"] = "order must be one of: asc, desc"
		} else {
			q.Order = raw
		}
	}

	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxLimit {
			fieldErrors["limit"] = "limit must be between 1 and 100"
		} else {
			q.Limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			fieldErrors["offset"] = "offset must be >= 0"
		} else {
			q.Offset = v
		}
	}

	if len(fieldErrors) > 0 {
		return q, fieldErrors
	}
	return q, nil
}

// CreatedAfter computes the recency window boundary: now in UTC truncated to
// day granularity, minus the query's day count.
func (q ListQuery) CreatedAfter(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -q.Days)
}

// Filters translates the query into the storage-level filter set.
func (q ListQuery) Filters(now time.Time) repository.RecordFilters {
	return repository.RecordFilters{
		DefectTypes:  q.DefectTypes,
		MinSeverity:  q.MinSeverity,
		MaxSeverity:  q.MaxSeverity,
		HasLocation:  q.HasLocation,
		CreatedAfter: q.CreatedAfter(now),
		SortBy:       q.SortBy,
		Order:        q.Order,
		Limit:        q.Limit,
		Offset:       q.Offset,
	}
}
