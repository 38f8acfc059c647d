package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOStorage struct {
	client *minio.Client
	bucket string
}

func NewMinIOStorage(config StorageConfig) (*MinIOStorage, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, errors.Annotate(err, "failed to create MinIO client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.Timeout)*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, errors.Annotate(err, "failed to check bucket existence")
	}

	if !exists {
		err = client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{
			Region: config.Region,
		})
		if err != nil {
			return nil, errors.Annotate(err, "failed to create bucket")
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: config.Bucket,
	}, nil
}

func (s *MinIOStorage) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return errors.Trace(err)
}

func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	return errors.Trace(s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}))
}

func (s *MinIOStorage) GetURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)
}
