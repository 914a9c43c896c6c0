package storage

import (
	"context"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"storefront/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "media"}, "minio endpoint is required"},
		{"missing secret", config.MinIOConfig{Endpoint: "minio:9000", AccessKey: "a", Bucket: "media"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s"}, "minio bucket is required"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tc.cfg)
			assert.EqualError(t, err, tc.want)
			assert.Nil(t, s)
		})
	}
}

func TestObjectError(t *testing.T) {
	noKey := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	assert.ErrorIs(t, objectError(noKey, "products/a.png"), ErrObjectNotFound)

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	err := objectError(denied, "products/a.png")
	assert.NotErrorIs(t, err, ErrObjectNotFound)
	assert.Contains(t, err.Error(), "stat products/a.png")

	assert.False(t, isNotFound(errors.New("dial tcp: refused")))
}

func TestToInfo(t *testing.T) {
	st := minio.ObjectInfo{
		Size:        4,
		ETag:        "abc",
		ContentType: "image/png",
		Metadata:    http.Header{"Cache-Control": []string{"public, max-age=31536000, immutable"}},
	}

	info := toInfo("products/a.png", st)
	assert.Equal(t, "products/a.png", info.Key)
	assert.Equal(t, "abc", info.ETag)
	assert.Equal(t, "public, max-age=31536000, immutable", info.CacheControl)

	assert.Empty(t, toInfo("k", minio.ObjectInfo{}).CacheControl)
}
