package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

/*
Byte-source providers for the CLI tooling. The decoder core takes any
io.Reader; these providers translate user-facing locations (local paths, "-"
for stdin, s3:// URIs) into readers. Decoding consumes whatever bytes are
currently available, so a provider never needs to know whether a log is
sealed or still being appended to.
*/

////////////////////////////////////////////////////////////////////////////////

var ErrObjectNotFound = errors.New("object not found")

// Provider supplies byte streams for named objects.
type Provider interface {
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

type filestore struct{}

// NewFileStore returns a provider over the local filesystem. The name "-"
// reads standard input.
func NewFileStore() Provider {
	return &filestore{}
}

// Get opens the named file.
func (s *filestore) Get(_ context.Context, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *filestore) String() string {
	return "file"
}

// Open resolves a location string to a byte stream, dispatching on scheme.
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "s3://") {
		return NewFileStore().Get(ctx, location)
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s3 location: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 location %q must be s3://bucket/key", location)
	}
	store, err := NewS3StoreFromEnv()
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, bucket+"/"+key)
}
