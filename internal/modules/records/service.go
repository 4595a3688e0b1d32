package records

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/pkg/photostore"
)

const maxPhotosPerRecord = 10

type Service struct {
	store  RecordStore
	photos PhotoStore
	events EventPublisher // optional
}

func NewService(store RecordStore, photos PhotoStore, events EventPublisher) *Service {
	return &Service{store: store, photos: photos, events: events}
}

// Create validates the upload batch, stages the files, and persists the
// record aggregate atomically. Any failure after staging removes the staged
// files again so a failed create never leaves orphans behind.
func (s *Service) Create(
	ctx context.Context,
	ownerID string,
	input CreateRecordInput,
	files []*multipart.FileHeader,
) (*domain.Record, error) {

	if !input.DefectType.Valid() || input.Severity < 1 || input.Severity > 5 {
		return nil, ErrValidation
	}
	if len(files) == 0 {
		return nil, ErrNoPhotos
	}
	if len(files) > maxPhotosPerRecord {
		return nil, ErrTooManyPhotos
	}

	// The whole batch is checked before anything touches the disk.
	for _, fh := range files {
		if err := s.photos.Validate(fh); err != nil {
			return nil, mapPhotoError(err)
		}
	}

	staged := make([]string, 0, len(files))
	now := time.Now().UTC()

	photos := make([]domain.RecordPhoto, 0, len(files))
	for i, fh := range files {
		p, err := s.photos.Stage(fh)
		if err != nil {
			s.photos.Remove(staged)
			return nil, mapPhotoError(err)
		}
		staged = append(staged, p.Path)

		photos = append(photos, domain.RecordPhoto{
			ID:           uuid.NewString(),
			Path:         p.Path,
			MimeType:     p.MimeType,
			OriginalName: p.OriginalName,
			SizeBytes:    p.SizeBytes,
			// Staggered timestamps preserve upload order under the
			// created_at ASC photo sort.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}

	rec := &domain.Record{
		ID:               uuid.NewString(),
		UserID:           ownerID,
		DefectType:       input.DefectType,
		Severity:         input.Severity,
		Note:             input.Note,
		Lat:              input.Lat,
		Lng:              input.Lng,
		LocationAccuracy: input.LocationAccuracy,
		RecordedAt:       input.RecordedAt,
		CreatedAt:        now,
	}

	full, err := s.store.CreateWithPhotos(ctx, rec, photos)
	if err != nil {
		s.photos.Remove(staged)
		return nil, err
	}

	if s.events != nil {
		s.events.RecordCreated(ownerID, full)
	}
	return full, nil
}

// List runs the paginated query and shapes the lightweight list response.
func (s *Service) List(ctx context.Context, ownerID string, q ListQuery) (*ListRecordsResponse, error) {
	entries, total, err := s.store.QueryPage(ctx, ownerID, q.Filters(time.Now()))
	if err != nil {
		return nil, err
	}

	items := make([]RecordListItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, RecordListItem{
			ID:               e.Record.ID,
			DefectType:       e.Record.DefectType,
			Severity:         e.Record.Severity,
			Note:             e.Record.Note,
			Lat:              e.Record.Lat,
			Lng:              e.Record.Lng,
			LocationAccuracy: e.Record.LocationAccuracy,
			RecordedAt:       e.Record.RecordedAt,
			CreatedAt:        e.Record.CreatedAt,
			CoverPhotoPath:   e.CoverPhotoPath,
			PhotosCount:      e.PhotosCount,
		})
	}

	return &ListRecordsResponse{
		Items:   items,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		Days:    q.Days,
		HasMore: int64(q.Offset+len(items)) < total,
	}, nil
}

// GetByID returns the full aggregate, photos ordered by creation time.
func (s *Service) GetByID(ctx context.Context, ownerID, id string) (*domain.Record, error) {
	rec, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the aggregate transactionally, then unlinks the photo files
// best-effort. File removal never fails the request: the database committed.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (*DeleteRecordResponse, error) {
	paths, err := s.store.DeleteByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.photos.Remove(paths)
	log.Printf("record_deleted owner_id=%s record_id=%s photos=%d", ownerID, id, len(paths))

	if s.events != nil {
		s.events.RecordDeleted(ownerID, id)
	}
	return &DeleteRecordResponse{Status: "deleted"}, nil
}

func mapPhotoError(err error) error {
	switch {
	case errors.Is(err, photostore.ErrFileTooLarge):
		return ErrPhotoTooLarge
	case errors.Is(err, photostore.ErrInvalidMimeType):
		return ErrUnsupportedPhotoType
	case errors.Is(err, photostore.ErrEmptyFile):
		return ErrValidation
	default:
		return err
	}
}
