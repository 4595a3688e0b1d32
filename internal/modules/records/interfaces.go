package records

import (
	"context"
	"mime/multipart"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/pkg/photostore"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/repository"
)

// RecordStore is the persistence boundary of the service.
type RecordStore interface {
	CreateWithPhotos(ctx context.Context, rec *domain.Record, photos []domain.RecordPhoto) (*domain.Record, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Record, error)
	DeleteByID(ctx context.Context, ownerID, id string) ([]string, error)
	QueryPage(ctx context.Context, ownerID string, f repository.RecordFilters) ([]repository.RecordListEntry, int64, error)
}

// PhotoStore stages uploaded photo files and removes them best-effort.
type PhotoStore interface {
	Validate(fh *multipart.FileHeader) error
	Stage(fh *multipart.FileHeader) (photostore.StagedPhoto, error)
	Remove(paths []string)
}

// EventPublisher pushes record lifecycle events to connected clients.
type EventPublisher interface {
	RecordCreated(ownerID string, rec *domain.Record)
	RecordDeleted(ownerID, recordID string)
}
