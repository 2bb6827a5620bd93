package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig encapsulates the connection info for an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioClient implements ObjectStorage on top of minio-go.
type MinioClient struct {
	client *minio.Client
	bucket string
}

func NewMinioClient(cfg MinioConfig) (*MinioClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object storage bucket must be provided")
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &MinioClient{client: client, bucket: cfg.Bucket}, nil
}

// ListObjects lists all objects for a given prefix, recursively.
func (c *MinioClient) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var results []ObjectInfo
	for object := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("object storage list failed: %w", object.Err)
		}
		results = append(results, ObjectInfo{Key: object.Key, Size: object.Size})
	}
	return results, nil
}

// DownloadObject downloads an object to the provided destination path.
func (c *MinioClient) DownloadObject(ctx context.Context, key, destPath string) error {
	return c.client.FGetObject(ctx, c.bucket, key, destPath, minio.GetObjectOptions{})
}

var _ ObjectStorage = (*MinioClient)(nil)

// splitEndpoint strips a URL scheme, which minio-go does not accept, and lets
// an explicit scheme override the SSL flag.
func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "//"), "/"), useSSL
	}
}
