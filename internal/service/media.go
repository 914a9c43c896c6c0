package service

import (
	"context"
	"database/sql"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/storage"
)

// MediaURLPrefix is the public path objects are served under.
const MediaURLPrefix = "/media/"

// Keys embed a fresh uuid, so an object's content never changes.
const mediaCacheControl = "public, max-age=31536000, immutable"

// Known upload folders. Anything else lands in "uploads".
var mediaPrefixes = map[string]bool{
	"products":   true,
	"categories": true,
	"banners":    true,
}

// MediaObject describes a stored upload.
type MediaObject struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// MediaService stores catalog images in object storage.
type MediaService interface {
	// Upload stores an image under <prefix>/<uuid><ext>.
	Upload(ctx context.Context, prefix string, r io.Reader, filename, contentType string, size int64) (*MediaObject, error)
	// UploadProductImage stores an image and appends its URL to the product. The object
	// is deleted again when the product cannot be updated.
	UploadProductImage(ctx context.Context, productID string, r io.Reader, filename, contentType string, size int64) (*model.Product, error)
	// Open streams a stored object by key.
	Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
	// Stat returns a stored object's info, used to answer conditional requests.
	Stat(ctx context.Context, key string) (storage.ObjectInfo, error)
}

type mediaService struct {
	store   storage.Storage
	catalog repository.CatalogRepository
}

// NewMediaService constructs a MediaService.
func NewMediaService(store storage.Storage, catalog repository.CatalogRepository) MediaService {
	return &mediaService{store: store, catalog: catalog}
}

func (s *mediaService) Upload(ctx context.Context, prefix string, r io.Reader, filename, contentType string, size int64) (*MediaObject, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if !isImage(contentType) {
		return nil, ErrUnsupportedMedia
	}
	if !mediaPrefixes[prefix] {
		prefix = "uploads"
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	key := prefix + "/" + uuid.New().String() + ext

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:         size,
		ContentType:  contentType,
		CacheControl: mediaCacheControl,
		Metadata:     map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, errors.Wrap(err, "upload to storage")
	}
	if info.Key == "" {
		info.Key = key
	}
	return &MediaObject{
		Key:         info.Key,
		URL:         MediaURLPrefix + info.Key,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

func (s *mediaService) UploadProductImage(ctx context.Context, productID string, r io.Reader, filename, contentType string, size int64) (*model.Product, error) {
	if productID == "" {
		return nil, ErrIDRequired
	}
	obj, err := s.Upload(ctx, "products", r, filename, contentType, size)
	if err != nil {
		return nil, err
	}

	p, err := s.catalog.AppendProductImage(ctx, productID, obj.URL)
	if err != nil {
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return nil, errors.Wrapf(err, "rollback delete failed: %v; db save failed", delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "db save failed")
	}
	p.ApplyPricing()
	return p, nil
}

func (s *mediaService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	key, ok := cleanKey(key)
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return s.store.Get(ctx, key)
}

func (s *mediaService) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	key, ok := cleanKey(key)
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return s.store.Stat(ctx, key)
}

// cleanKey strips the leading slash and rejects empty or traversing keys.
func cleanKey(key string) (string, bool) {
	key = strings.TrimPrefix(key, "/")
	return key, key != "" && !strings.Contains(key, "..")
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}
