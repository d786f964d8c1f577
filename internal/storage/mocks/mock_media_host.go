package mocks

import (
	"context"
	"io"

	"imagevault/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockMediaHost struct {
	mock.Mock
}

func (m *MockMediaHost) Upload(ctx context.Context, r io.Reader, folder string, opt storage.UploadOptions) (storage.UploadResult, error) {
	args := m.Called(ctx, r, folder, opt)
	return args.Get(0).(storage.UploadResult), args.Error(1)
}

func (m *MockMediaHost) Delete(ctx context.Context, objectID string) error {
	args := m.Called(ctx, objectID)
	return args.Error(0)
}
