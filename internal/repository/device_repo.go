package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// ResolveOrCreate returns the owner id for a device token, registering the
// token on first sight. Losing a creation race to a concurrent first request
// falls back to reading the winner's row.
func (r *DeviceRepository) ResolveOrCreate(ctx context.Context, token string) (string, error) {
	var device domain.Device

	err := r.db.WithContext(ctx).Where("token = ?", token).First(&device).Error
	if err == nil {
		return device.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	device = domain.Device{
		ID:        uuid.NewString(),
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}
	if createErr := r.db.WithContext(ctx).Create(&device).Error; createErr != nil {
		if lookupErr := r.db.WithContext(ctx).Where("token = ?", token).First(&device).Error; lookupErr != nil {
			return "", createErr
		}
	}
	return device.ID, nil
}
