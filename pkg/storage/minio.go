package storage

import (
	"context"

	"github.com/minio/minio-go/v7"
)

// BlobStore is the object-storage collaborator. Upload must tolerate
// retry/resume without duplicating the object (minio multipart uploads
// already behave this way for a fixed object key).
type BlobStore interface {
	Upload(ctx context.Context, localPath, objectKey, contentType string) error
	Download(ctx context.Context, objectKey, localPath string) error
}

type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(client *minio.Client, bucket string) *MinIOStore {
	return &MinIOStore{client: client, bucket: bucket}
}

var _ BlobStore = (*MinIOStore)(nil)

func (s *MinIOStore) Upload(ctx context.Context, localPath, objectKey, contentType string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, objectKey, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinIOStore) Download(ctx context.Context, objectKey, localPath string) error {
	return s.client.FGetObject(ctx, s.bucket, objectKey, localPath, minio.GetObjectOptions{})
}
