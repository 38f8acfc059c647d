package storage

import (
	"context"
	"io"
)

// DocumentStorage keeps uploaded training material documents.
type DocumentStorage interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Timeout   int
}
