package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"imagevault/internal/config"
)

// minioMediaHost implements MediaHost against an S3-compatible backend
// (MinIO, AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type minioMediaHost struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewMinIO creates a new media host client backed by an S3-compatible store.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (MediaHost, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	mh := &minioMediaHost{client: cli, endpoint: cfg.Endpoint, bucket: cfg.Bucket, useSSL: cfg.UseSSL}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return mh, nil
}

// Upload stores an object under folder/<uuid> using streaming I/O only.
// The generated key doubles as the object id used for deletion.
func (m *minioMediaHost) Upload(ctx context.Context, r io.Reader, folder string, opt UploadOptions) (UploadResult, error) {
	key := path.Join(folder, uuid.NewString())

	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	}
	if _, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{ObjectID: key, URL: m.publicURL(key)}, nil
}

// Delete removes an object by its id.
func (m *minioMediaHost) Delete(ctx context.Context, objectID string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectID, minio.RemoveObjectOptions{})
}

// publicURL builds the object's public retrieval link from the endpoint and
// bucket. The bucket is expected to allow anonymous reads.
func (m *minioMediaHost) publicURL(key string) string {
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   m.endpoint,
		Path:   path.Join("/", m.bucket, key),
	}
	return u.String()
}
