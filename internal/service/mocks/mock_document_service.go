package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) UploadImage(ctx context.Context, userID string, r io.Reader, originalFilename string, size int64, contentType string) (string, error) {
	args := m.Called(ctx, userID, r, originalFilename, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) DeleteImage(ctx context.Context, userID, documentID string) error {
	args := m.Called(ctx, userID, documentID)
	return args.Error(0)
}
