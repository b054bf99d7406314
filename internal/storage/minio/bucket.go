// Package minio stores resumes in an S3-compatible bucket.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dtroode/jobboard/internal/config"
	"github.com/dtroode/jobboard/internal/model"
)

// objectAPI is the slice of the MinIO SDK the bucket needs.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// sdk narrows GetObject to io.ReadCloser; the other methods come from the
// embedded client unchanged.
type sdk struct {
	*minio.Client
}

func (s sdk) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucketName, objectName, opts)
}

var _ model.Storage = (*Bucket)(nil)

// Bucket keeps resumes as objects under the keys the application service
// hands it.
type Bucket struct {
	api  objectAPI
	name string
}

// New connects to the configured endpoint and creates the bucket on first
// use.
func New(ctx context.Context, cfg config.Storage) (*Bucket, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return open(ctx, sdk{Client: client}, cfg.Bucket, cfg.Region)
}

func open(ctx context.Context, api objectAPI, name, region string) (*Bucket, error) {
	b := &Bucket{api: api, name: name}

	exists, err := api.BucketExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", name, err)
	}
	if exists {
		return b, nil
	}

	err = api.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: region})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return nil, fmt.Errorf("failed to create bucket %q: %w", name, err)
	}
	return b, nil
}

// Upload stores size bytes from reader under key. A negative size streams
// until EOF.
func (b *Bucket) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{
		ContentType:        contentType,
		ContentDisposition: "attachment",
	}
	if _, err := b.api.PutObject(ctx, b.name, key, reader, size, opts); err != nil {
		return fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	return nil
}

// Download opens the object for reading. The SDK only contacts the server on
// the first read, so a missing key may surface there instead of here.
func (b *Bucket) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := b.api.GetObject(ctx, b.name, key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	return obj, nil
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	err := b.api.RemoveObject(ctx, b.name, key, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.api.StatObject(ctx, b.name, key, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat object %q: %w", key, err)
	}
}

// isNotFound matches both the S3 error code and a bare 404 from HEAD
// requests, which carry no body.
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
