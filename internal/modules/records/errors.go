package records

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("record not found")
	ErrNoPhotos             = errors.New("at least one photo is required")
	ErrTooManyPhotos        = errors.New("too many photos")
	ErrPhotoTooLarge        = errors.New("photo exceeds maximum allowed size")
	ErrUnsupportedPhotoType = errors.New("unsupported file type")
)
