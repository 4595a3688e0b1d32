package photostore

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxPhotoSize is the per-file ceiling for uploaded photos.
	MaxPhotoSize = 5 * 1024 * 1024 // 5 MB

	// PublicBase is the URL prefix under which stored photos are served.
	PublicBase = "/uploads"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
)

// allowedExt maps accepted declared MIME types to stored file extensions.
// HEIC/HEIF cannot be sniffed by content, so the declared part type decides.
var allowedExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// StagedPhoto describes a file written to the upload directory. Path is the
// public-relative path ("/uploads/<uuid>.jpg") stored in the database.
type StagedPhoto struct {
	Path         string
	MimeType     string
	OriginalName string
	SizeBytes    int64
}

// Store keeps photo files on the local filesystem. The database row is the
// source of truth: file removal is always best-effort.
type Store struct {
	baseDir string
}

func New(baseDir string) (*Store, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{baseDir: abs}, nil
}

func (s *Store) BaseDir() string { return s.baseDir }

// Validate checks size and declared MIME type without touching the disk,
// so a whole batch can be rejected before anything is persisted.
func (s *Store) Validate(fh *multipart.FileHeader) error {
	if fh.Size == 0 {
		return ErrEmptyFile
	}
	if fh.Size > MaxPhotoSize {
		return ErrFileTooLarge
	}
	if _, ok := allowedExt[declaredMime(fh)]; !ok {
		return ErrInvalidMimeType
	}
	return nil
}

// Stage writes an uploaded part to the upload directory under a fresh UUID
// name and returns its stored metadata.
func (s *Store) Stage(fh *multipart.FileHeader) (StagedPhoto, error) {
	if err := s.Validate(fh); err != nil {
		return StagedPhoto{}, err
	}

	mimeType := declaredMime(fh)
	filename := uuid.NewString() + allowedExt[mimeType]

	src, err := fh.Open()
	if err != nil {
		return StagedPhoto{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	absPath := filepath.Join(s.baseDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return StagedPhoto{}, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return StagedPhoto{}, fmt.Errorf("write file: %w", err)
	}

	return StagedPhoto{
		Path:         PublicBase + "/" + filename,
		MimeType:     mimeType,
		OriginalName: fh.Filename,
		SizeBytes:    fh.Size,
	}, nil
}

// Remove unlinks stored files best-effort. Errors are swallowed: a dangling
// file is a low-cost leak and the database remains authoritative.
func (s *Store) Remove(paths []string) {
	for _, p := range paths {
		_ = os.Remove(s.Absolute(p))
	}
}

// Absolute maps a stored public path back to a file under the upload dir.
// Only the basename is used, which blocks path traversal.
func (s *Store) Absolute(storedPath string) string {
	return filepath.Join(s.baseDir, filepath.Base(storedPath))
}

func declaredMime(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	return strings.TrimSpace(strings.Split(ct, ";")[0])
}
