package selfie

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
	"github.com/yanqian/glow-advisor/pkg/util"
)

// DefaultMaxBytes caps uploaded selfies at 8 MiB.
const DefaultMaxBytes = 8 << 20

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	ETag     string `json:"etag"`
}

// ObjectStorage abstracts blob storage (R2/S3/local).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Config bounds uploads.
type Config struct {
	MaxBytes int64
}

// Service stores selfies and hands back the key used as image reference.
type Service interface {
	Store(ctx context.Context, data []byte) (StoredObject, error)
	// MaxBytes reports the largest accepted upload.
	MaxBytes() int64
}

type service struct {
	cfg     Config
	storage ObjectStorage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService constructs the selfie service.
func NewService(cfg Config, storage ObjectStorage, logger *slog.Logger) Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &service{
		cfg:     cfg,
		storage: storage,
		logger:  logger.With("component", "selfie.service"),
		now:     util.NowUTC,
		newID:   uuid.NewString,
	}
}

func (s *service) MaxBytes() int64 { return s.cfg.MaxBytes }

// Store sniffs the content type, rejects non-images and oversized payloads,
// and writes the blob under a dated key.
func (s *service) Store(ctx context.Context, data []byte) (StoredObject, error) {
	if len(data) == 0 {
		return StoredObject{}, apperrors.Wrap("invalid_input", "image is empty", nil)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return StoredObject{}, apperrors.Wrap("invalid_input", fmt.Sprintf("image exceeds %d bytes", s.cfg.MaxBytes), nil)
	}
	mimeType := http.DetectContentType(data)
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return StoredObject{}, apperrors.Wrap("invalid_input", "unsupported image type "+mimeType, nil)
	}
	key := fmt.Sprintf("selfies/%s/%s.%s", s.now().Format("2006/01/02"), s.newID(), ext)
	obj, err := s.storage.Put(ctx, key, data, mimeType)
	if err != nil {
		s.logger.Error("store selfie failed", "key", key, "error", err)
		return StoredObject{}, apperrors.Wrap("storage_error", "failed to store image", err)
	}
	s.logger.Debug("selfie stored", "key", obj.Key, "size", obj.Size)
	return obj, nil
}
