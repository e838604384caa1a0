package photos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrPhotoLimitReached   = errors.New("photo limit reached")
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
)

const (
	signedURLTTL     = 5 * time.Minute
	maxPhotoSizeByte = 10 << 20
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Store interface {
	Create(ctx context.Context, userID int64, objectKey string) (pgrepo.PhotoRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]pgrepo.PhotoRecord, error)
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	store   Store
	storage ObjectStorage
	now     func() time.Time
}

type Photo struct {
	ID        int64
	Position  int
	URL       string
	Blurred   bool
	CreatedAt time.Time
}

func NewService(store Store, storage ObjectStorage) *Service {
	return &Service{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

func (s *Service) Upload(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (Photo, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return Photo{}, ErrValidation
	}
	if size > maxPhotoSizeByte {
		return Photo{}, ErrValidation
	}
	if s.store == nil || s.storage == nil {
		return Photo{}, fmt.Errorf("photo dependencies are not configured")
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedContentTypes[contentType]; !ok {
		return Photo{}, ErrUnsupportedMimeType
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Photo{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := s.buildObjectKey(userID, fileName, contentType)
	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return Photo{}, fmt.Errorf("put object: %w", err)
	}

	record, err := s.store.Create(ctx, userID, objectKey)
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		if errors.Is(err, pgrepo.ErrPhotoLimitReached) {
			return Photo{}, ErrPhotoLimitReached
		}
		return Photo{}, fmt.Errorf("create photo record: %w", err)
	}

	signed, err := s.storage.PresignGet(ctx, record.ObjectKey, signedURLTTL)
	if err != nil {
		return Photo{}, fmt.Errorf("presign photo url: %w", err)
	}

	return Photo{
		ID:        record.ID,
		Position:  record.Position,
		URL:       signed,
		CreatedAt: record.CreatedAt,
	}, nil
}

// ListVisible renders the subject's gallery for a viewer whose photo
// disclosure has already been decided. When the viewer is not entitled,
// entries keep their count and order but carry no signed URL: clients render
// blurred placeholders, and the originals never leave the private bucket.
func (s *Service) ListVisible(ctx context.Context, subjectID int64, disclosed bool) ([]Photo, error) {
	if subjectID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("photo dependencies are not configured")
	}

	records, err := s.store.ListByUser(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list photo records: %w", err)
	}

	items := make([]Photo, 0, len(records))
	for _, rec := range records {
		item := Photo{
			ID:        rec.ID,
			Position:  rec.Position,
			Blurred:   !disclosed,
			CreatedAt: rec.CreatedAt,
		}
		if disclosed {
			if s.storage == nil {
				return nil, fmt.Errorf("photo dependencies are not configured")
			}
			signed, err := s.storage.PresignGet(ctx, rec.ObjectKey, signedURLTTL)
			if err != nil {
				return nil, fmt.Errorf("presign photo url: %w", err)
			}
			item.URL = signed
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *Service) ListOwn(ctx context.Context, userID int64) ([]Photo, error) {
	return s.ListVisible(ctx, userID, true)
}

func (s *Service) buildObjectKey(userID int64, fileName, contentType string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = allowedContentTypes[contentType]
	}

	stamp := s.now().UTC().Format("20060102")
	return fmt.Sprintf("users/%d/photos/%s_%s%s", userID, stamp, uuid.NewString(), ext)
}
