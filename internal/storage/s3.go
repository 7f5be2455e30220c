package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

const (
	iconPrefix   = "group-icons"
	iconCacheFor = "public, max-age=86400"
)

type ObjectStat struct {
	ETag         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// S3Storage keeps group icons in one bucket of an S3 compatible store.
type S3Storage struct {
	client *minio.Client
	bucket string
}

// NewS3Storage connects and creates the bucket if it is missing.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (*S3Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "s3 client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "check bucket %s", cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, errors.Wrapf(err, "create bucket %s", cfg.Bucket)
		}
	}
	return &S3Storage{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Storage) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) (ObjectStat, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: iconCacheFor,
	})
	if err != nil {
		return ObjectStat{}, errors.Wrapf(err, "put %s", key)
	}
	return ObjectStat{ETag: info.ETag, Size: info.Size, ContentType: contentType, LastModified: info.LastModified}, nil
}

// GetObject opens key for reading. The caller closes the reader.
func (s *S3Storage) GetObject(ctx context.Context, key string) (io.ReadCloser, ObjectStat, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectStat{}, errors.Wrapf(err, "get %s", key)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectStat{}, errors.Wrapf(err, "stat %s", key)
	}
	return obj, ObjectStat{
		ETag:         info.ETag,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

func (s *S3Storage) DeleteObject(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// IconKey returns a new key under the group's icon folder. Every upload
// gets its own key so a cached old icon is never served for a new one.
func IconKey(groupID uuid.UUID) string {
	return path.Join(iconPrefix, groupID.String(), uuid.NewString()+".png")
}

// IsIconKey reports whether key has the shape IconKey produces for groupID.
func IsIconKey(groupID uuid.UUID, key string) bool {
	dir, file := path.Split(key)
	if dir != iconPrefix+"/"+groupID.String()+"/" {
		return false
	}
	stem, ok := strings.CutSuffix(file, ".png")
	if !ok {
		return false
	}
	_, err := uuid.Parse(stem)
	return err == nil
}
