package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"imagevault/internal/model"
	"imagevault/internal/repository"
	"imagevault/internal/storage"
)

// uploadFolder is the fixed logical folder every image is stored under.
const uploadFolder = "images"

var (
	ErrUnsupportedType   = errors.New("file format is not supported")
	ErrDocumentNotFound  = errors.New("image not found or already deleted")
	ErrUploadFailed      = errors.New("image upload unsuccessful")
	ErrMediaDeleteFailed = errors.New("image not deleted from media host")
	ErrLinkRemovalFailed = errors.New("image deletion unsuccessful")
)

var allowedImageTypes = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
}

// DocumentService defines the image upload and delete use cases.
//
// Neither operation is atomic across the database and the media host: each
// step can fail leaving prior steps in place, and no compensation is
// attempted. The ordering below is deliberate and observable:
//
//	upload:  media upload → document insert → user list append
//	delete:  document delete → media delete → user list removal
type DocumentService interface {
	// UploadImage validates the file extension, uploads the bytes to the
	// media host, records a Document, links it to the user, and returns
	// the public URL. A failed linkage leaves the document and the media
	// object in place (orphaned).
	UploadImage(ctx context.Context, userID string, r io.Reader, originalFilename string, size int64, contentType string) (string, error)

	// DeleteImage removes the document record, then the media object, then
	// the user's reference. A failure at any step aborts the rest without
	// undoing what already happened.
	DeleteImage(ctx context.Context, userID, documentID string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	media storage.MediaHost
	docs  repository.DocumentRepository
	users repository.UserRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(media storage.MediaHost, docs repository.DocumentRepository, users repository.UserRepository) DocumentService {
	return &documentService{media: media, docs: docs, users: users}
}

func (s *documentService) UploadImage(ctx context.Context, userID string, r io.Reader, originalFilename string, size int64, contentType string) (string, error) {
	// The display name is always synthesized with a .jpg suffix even though
	// the check below accepts png as well.
	name := fmt.Sprintf("frame_%d.jpg", time.Now().UnixMilli())

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalFilename), "."))
	if _, ok := allowedImageTypes[ext]; !ok {
		return "", ErrUnsupportedType
	}

	res, err := s.media.Upload(ctx, r, uploadFolder, storage.UploadOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload to media host: %w", err)
	}

	doc := &model.Document{
		ID:        uuid.NewString(),
		Name:      name,
		ObjectID:  res.ObjectID,
		URL:       res.URL,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	// Linking is last; failing here strands the document and the object.
	if err := s.users.PushDocument(ctx, userID, stored.ID); err != nil {
		return "", ErrUploadFailed
	}

	return res.URL, nil
}

func (s *documentService) DeleteImage(ctx context.Context, userID, documentID string) error {
	// The row goes first; RETURNING recovers the object id for step two.
	doc, err := s.docs.DeleteReturning(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}

	// Row is already gone; a failure here leaves the user list untouched.
	if err := s.media.Delete(ctx, doc.ObjectID); err != nil {
		return ErrMediaDeleteFailed
	}

	// Object and row are gone; a failure here leaves a dangling reference.
	if err := s.users.PullDocument(ctx, userID, documentID); err != nil {
		return ErrLinkRemovalFailed
	}

	return nil
}
