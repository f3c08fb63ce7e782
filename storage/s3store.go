package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

/*
Storage provider for S3-compatible object storage. We use the minio client
library. Object names are "bucket/key".
*/

////////////////////////////////////////////////////////////////////////////////

const (
	minioErrObjectNotExist = "The specified key does not exist."
)

type s3store struct {
	mc *minio.Client
}

// NewS3Store returns a provider over an S3-compatible object store.
func NewS3Store(mc *minio.Client) Provider {
	return &s3store{mc: mc}
}

// NewS3StoreFromEnv builds an S3 provider from the environment: endpoint from
// ULOG_S3_ENDPOINT (default AWS), credentials from the usual AWS variables.
func NewS3StoreFromEnv() (Provider, error) {
	endpoint := os.Getenv("ULOG_S3_ENDPOINT")
	secure := true
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	} else if strings.HasPrefix(endpoint, "http://") {
		endpoint = strings.TrimPrefix(endpoint, "http://")
		secure = false
	} else {
		endpoint = strings.TrimPrefix(endpoint, "https://")
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvAWS(),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build s3 client: %w", err)
	}
	return NewS3Store(mc), nil
}

// Get retrieves an object from the object store.
func (s *s3store) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	bucket, key, ok := strings.Cut(name, "/")
	if !ok {
		return nil, fmt.Errorf("object name %q must be bucket/key", name)
	}
	obj, err := s.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	// GetObject is lazy; surface missing objects on first stat.
	if _, err := obj.Stat(); err != nil {
		if err.Error() == minioErrObjectNotExist {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return obj, nil
}

func (s *s3store) String() string {
	return fmt.Sprintf("s3(%s)", s.mc.EndpointURL())
}
