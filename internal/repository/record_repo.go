package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
)

// Sort parameter values as they appear on the wire.
const (
	SortByCreatedAt = "createdAt"
	SortBySeverity  = "severity"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// RecordFilters is the full filter/sort/pagination input of a list query.
// All filters combine with AND; nil pointers mean "no constraint".
type RecordFilters struct {
	DefectTypes  []domain.DefectType
	MinSeverity  *int
	MaxSeverity  *int
	HasLocation  *bool // true: lat IS NOT NULL; false: lat IS NULL
	CreatedAfter time.Time
	SortBy       string // SortByCreatedAt | SortBySeverity
	Order        string // OrderAsc | OrderDesc
	Limit        int
	Offset       int
}

// RecordListEntry is one page row hydrated with its list-view derivates.
type RecordListEntry struct {
	Record         domain.Record
	CoverPhotoPath *string
	PhotosCount    int64
}

type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// CreateWithPhotos inserts the record and its photo rows in one transaction
// and reads back the full aggregate. Any failure rolls everything back.
func (r *RecordRepository) CreateWithPhotos(
	ctx context.Context,
	rec *domain.Record,
	photos []domain.RecordPhoto,
) (*domain.Record, error) {

	var out domain.Record

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}

		for i := range photos {
			photos[i].RecordID = rec.ID
		}
		if err := tx.Create(&photos).Error; err != nil {
			return err
		}

		return tx.
			Preload("Photos", orderPhotos).
			First(&out, "id = ?", rec.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID fetches the owned aggregate. A record owned by someone else is
// indistinguishable from a missing one (gorm.ErrRecordNotFound either way).
func (r *RecordRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Record, error) {
	var rec domain.Record

	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Preload("Photos", orderPhotos).
		First(&rec).Error

	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteByID removes the record and its photo rows transactionally and
// returns the stored photo paths so the caller can unlink the files.
func (r *RecordRepository) DeleteByID(ctx context.Context, ownerID, id string) ([]string, error) {
	var paths []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec domain.Record
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&rec).Error; err != nil {
			return err
		}

		var photos []domain.RecordPhoto
		if err := tx.Where("record_id = ?", rec.ID).Find(&photos).Error; err != nil {
			return err
		}
		for _, p := range photos {
			paths = append(paths, p.Path)
		}

		if err := tx.Where("record_id = ?", rec.ID).Delete(&domain.RecordPhoto{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Record{}, "id = ?", rec.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// QueryPage returns one page of matching records plus the total matching
// count. Both reads run inside one transaction, so they share a snapshot
// where the underlying database provides one.
//
// Ordering always appends "id ASC" after the primary sort key; the resulting
// total order keeps offset pagination free of skips and duplicates when
// records share a created_at or severity value.
func (r *RecordRepository) QueryPage(
	ctx context.Context,
	ownerID string,
	f RecordFilters,
) ([]RecordListEntry, int64, error) {

	var entries []RecordListEntry
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&domain.Record{}).
			Where("user_id = ?", ownerID).
			Where("created_at >= ?", f.CreatedAfter)

		if len(f.DefectTypes) > 0 {
			q = q.Where("defect_type IN ?", f.DefectTypes)
		}
		if f.MinSeverity != nil {
			q = q.Where("severity >= ?", *f.MinSeverity)
		}
		if f.MaxSeverity != nil {
			q = q.Where("severity <= ?", *f.MaxSeverity)
		}
		if f.HasLocation != nil {
			// Only lat is checked; lng/accuracy do not participate.
			if *f.HasLocation {
				q = q.Where("lat IS NOT NULL")
			} else {
				q = q.Where("lat IS NULL")
			}
		}

		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var records []domain.Record
		err := q.
			Order(orderClause(f.SortBy, f.Order)).
			Limit(f.Limit).
			Offset(f.Offset).
			Find(&records).Error
		if err != nil {
			return err
		}

		entries, err = hydrateListEntries(tx, records)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func orderClause(sortBy, order string) string {
	column := "created_at"
	if sortBy == SortBySeverity {
		column = "severity"
	}
	dir := "DESC"
	if order == OrderAsc {
		dir = "ASC"
	}
	return column + " " + dir + ", id ASC"
}

// hydrateListEntries attaches the cover photo path (earliest photo) and the
// photo count to each page row without loading full photo aggregates.
func hydrateListEntries(tx *gorm.DB, records []domain.Record) ([]RecordListEntry, error) {
	entries := make([]RecordListEntry, 0, len(records))
	if len(records) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	var photos []domain.RecordPhoto
	err := tx.
		Where("record_id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}

	covers := make(map[string]string, len(records))
	counts := make(map[string]int64, len(records))
	for _, p := range photos {
		if _, ok := covers[p.RecordID]; !ok {
			covers[p.RecordID] = p.Path
		}
		counts[p.RecordID]++
	}

	for _, rec := range records {
		entry := RecordListEntry{Record: rec, PhotosCount: counts[rec.ID]}
		if cover, ok := covers[rec.ID]; ok {
			c := cover
			entry.CoverPhotoPath = &c
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func orderPhotos(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}
