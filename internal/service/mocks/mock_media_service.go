package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"storefront/internal/content"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/storage"
)

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Upload(ctx context.Context, prefix string, r io.Reader, filename, contentType string, size int64) (*service.MediaObject, error) {
	args := m.Called(ctx, prefix, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MediaObject), args.Error(1)
}

func (m *MockMediaService) UploadProductImage(ctx context.Context, productID string, r io.Reader, filename, contentType string, size int64) (*model.Product, error) {
	args := m.Called(ctx, productID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockMediaService) Open(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Get(1).(storage.ObjectInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockMediaService) Stat(ctx context.Context, key string) (storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	info, _ := args.Get(0).(storage.ObjectInfo)
	return info, args.Error(1)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Page(ctx context.Context, slug string) (*content.Page, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.Page), args.Error(1)
}

func (m *MockContentService) Contact(ctx context.Context, in service.ContactInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}
