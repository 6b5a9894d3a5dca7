package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinioOptions struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	CreateBucket bool
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// Bare host:port is plain HTTP, as with a local MinIO.
	return raw, false, nil
}

// NewMinioStorage connects to the object store and makes sure the bucket is
// there, creating it only when opts.CreateBucket is set.
func NewMinioStorage(ctx context.Context, opts MinioOptions) (*MinioStorage, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("minio configuration incomplete")
	}

	endpoint, secure, err := normaliseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket exists: %w", err)
	}
	if !exists {
		if !opts.CreateBucket {
			return nil, fmt.Errorf("minio bucket does not exist: %s", opts.Bucket)
		}
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logrus.WithField("bucket", opts.Bucket).Info("created storage bucket")
	}

	return &MinioStorage{client: client, bucket: opts.Bucket}, nil
}

func (s *MinioStorage) Put(ctx context.Context, userID int64, key string, r io.Reader, size int64, contentType string) error {
	if contentType == "" {
		contentType = defaultContentType
	}
	_, err := s.client.PutObject(ctx, s.bucket, ObjectKey(userID, key), r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *MinioStorage) Get(ctx context.Context, userID int64, key string) (*Object, error) {
	objectKey := ObjectKey(userID, key)

	info, err := s.client.StatObject(ctx, s.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	return &Object{
		Body:        obj,
		Size:        info.Size,
		ETag:        `"` + strings.Trim(info.ETag, `"`) + `"`,
		ContentType: contentType,
		ModTime:     info.LastModified,
	}, nil
}

func (s *MinioStorage) Delete(ctx context.Context, userID int64, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, ObjectKey(userID, key), minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}
