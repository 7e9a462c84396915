package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"cloud.google.com/go/storage"
)

// StorageAdapter provides blob storage operations using Google Cloud Storage
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	wc := a.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = ContentType(objectName)
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("write gs://%s/%s: %w", bucketName, objectName, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close gs://%s/%s: %w", bucketName, objectName, err)
	}
	return nil
}

func (a *StorageAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := a.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucketName, objectName, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ContentType guesses an object's content type from its extension.
func ContentType(objectName string) string {
	ext := path.Ext(objectName)
	if ext == ".csv" {
		// missing from the builtin table
		return "text/csv; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
