package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"skillswap_backend/internal/config"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts where large artifacts (transcripts,
// session recordings) are kept.
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)
	Delete(ctx context.Context, objectName string) error
}

type LocalStorageProvider struct {
	BasePath string
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.BasePath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return objectName, nil
}

func (p *LocalStorageProvider) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.BasePath, objectName))
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.BasePath, objectName))
}

type MinioStorageProvider struct {
	Client *minio.Client
	Bucket string
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

func (p *MinioStorageProvider) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	return p.Client.GetObject(ctx, p.Bucket, objectName, minio.GetObjectOptions{})
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectName string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, objectName, minio.RemoveObjectOptions{})
}

// NewStorageProvider picks the backend from config: "minio" or
// "local" (default).
func NewStorageProvider(cfg *config.StorageConfig) (StorageProvider, error) {
	switch strings.ToLower(cfg.Type) {
	case "minio":
		client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
			Secure: cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}

		ctx := context.Background()
		exists, err := client.BucketExists(ctx, cfg.MinioBucket)
		if err != nil {
			return nil, fmt.Errorf("minio bucket check: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("minio bucket create: %w", err)
			}
		}

		return &MinioStorageProvider{Client: client, Bucket: cfg.MinioBucket}, nil
	default:
		path := cfg.LocalPath
		if path == "" {
			path = "uploads"
		}
		return &LocalStorageProvider{BasePath: path}, nil
	}
}
