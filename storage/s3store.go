package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

/*
Storage provider for S3-compatible object storage. We use the minio client
library.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	minioCodeNoSuchKey = "NoSuchKey"
)

// S3Config holds the connection settings for an S3Store.
type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
}

type S3Store struct {
	mc     *minio.Client
	bucket string
}

// NewS3Store returns a store reading from bucket through mc.
func NewS3Store(mc *minio.Client, bucket string) *S3Store {
	return &S3Store{
		mc:     mc,
		bucket: bucket,
	}
}

// DialS3 creates a minio client from conf and returns a store over its
// bucket. No request is made until the store is used.
func DialS3(conf S3Config) (*S3Store, error) {
	mc, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewS3Store(mc, conf.Bucket), nil
}

// Get opens an object. The object's metadata is fetched eagerly so that
// missing keys are reported here rather than on first read.
func (s *S3Store) Get(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	obj, err := s.mc.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == minioCodeNoSuchKey {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return obj, nil
}

// List returns the keys of the bucket under prefix.
func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for info := range s.mc.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", info.Err)
		}
		keys = append(keys, info.Key)
	}
	return keys, nil
}

func (s *S3Store) String() string {
	return fmt.Sprintf("s3(%s)", s.bucket)
}
