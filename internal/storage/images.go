package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	DefaultBucket = "article-images"
	// MaxImageSize is the largest accepted upload.
	MaxImageSize = 5 << 20
	// MaxURLExpiry is the longest lifetime S3 allows for a presigned URL.
	MaxURLExpiry = 7 * 24 * time.Hour

	cacheControl = "max-age=3600"
)

var (
	ErrUnsupportedType = platformerrors.New(platformerrors.CodeInvalidInput, "only JPEG, PNG, GIF and WebP images are allowed")
	ErrTooLarge        = platformerrors.New(platformerrors.CodeInvalidInput, "image exceeds 5MB")
	ErrEmpty           = platformerrors.New(platformerrors.CodeInvalidInput, "image is empty")
	ErrInvalidKey      = platformerrors.New(platformerrors.CodeInvalidInput, "image key must be a single object name")
)

// contentTypes maps accepted MIME types to their canonical extension.
var contentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// objectStore is the part of *minio.Client the uploader needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration,
		reqParams url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// Upload is a stored image.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Images stores article images in an S3 compatible bucket under random names.
type Images struct {
	store  objectStore
	bucket string
	expiry time.Duration
	log    *slog.Logger
	newID  func() uuid.UUID
}

func New(cfg Config, logger *slog.Logger) (*Images, error) {
	if cfg.Endpoint == "" {
		return nil, platformerrors.New(platformerrors.CodeInvalidConfig, "storage endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newImages(client, cfg, logger), nil
}

func newImages(store objectStore, cfg Config, logger *slog.Logger) *Images {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = DefaultBucket
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 || expiry > MaxURLExpiry {
		expiry = MaxURLExpiry
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Images{
		store:  store,
		bucket: bucket,
		expiry: expiry,
		log:    logger,
		newID:  uuid.New,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (i *Images) EnsureBucket(ctx context.Context) error {
	exists, err := i.store.BucketExists(ctx, i.bucket)
	if err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeUnavailable, "check bucket %s", i.bucket)
	} else if exists {
		return nil
	}

	if err := i.store.MakeBucket(ctx, i.bucket, minio.MakeBucketOptions{}); err != nil {
		return platformerrors.Wrapf(err, platformerrors.CodeUnavailable, "create bucket %s", i.bucket)
	}
	i.log.InfoContext(ctx, "created image bucket", "bucket", i.bucket)

	return nil
}

// Upload validates and stores an image, returning its key and a presigned URL.
func (i *Images) Upload(ctx context.Context, originalName, contentType string, size int64, r io.Reader) (*Upload, error) {
	if err := ValidateImage(contentType, size); err != nil {
		return nil, err
	}

	key := i.ObjectName(originalName, contentType)
	_, err := i.store.PutObject(ctx, i.bucket, key, io.LimitReader(r, size), size, minio.PutObjectOptions{
		ContentType:  normalizeType(contentType),
		CacheControl: cacheControl,
	})
	if err != nil {
		return nil, translate(err, "upload image")
	}

	u, err := i.store.PresignedGetObject(ctx, i.bucket, key, i.expiry, nil)
	if err != nil {
		return nil, translate(err, "sign image url")
	}

	i.log.InfoContext(ctx, "image uploaded", "key", key, "size", size)

	return &Upload{Key: key, URL: u.String()}, nil
}

// Delete removes an uploaded image. Removing a missing key is not an error.
func (i *Images) Delete(ctx context.Context, key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return ErrInvalidKey
	}

	if err := i.store.RemoveObject(ctx, i.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return translate(err, "delete image")
	}
	i.log.InfoContext(ctx, "image deleted", "key", key)

	return nil
}

// ObjectName is a random uuid keeping the extension of the original file
// name. Unknown extensions fall back to the one implied by contentType.
func (i *Images) ObjectName(originalName, contentType string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(originalName)), ".")
	if !knownExtension(ext) {
		ext = contentTypes[normalizeType(contentType)]
	}
	if ext == "" {
		ext = "jpg"
	}

	return i.newID().String() + "." + ext
}

func ValidateImage(contentType string, size int64) error {
	if _, ok := contentTypes[normalizeType(contentType)]; !ok {
		return fmt.Errorf("%w: got %q", ErrUnsupportedType, contentType)
	} else if size <= 0 {
		return ErrEmpty
	} else if size > MaxImageSize {
		return ErrTooLarge
	}

	return nil
}

func normalizeType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	return strings.ToLower(strings.TrimSpace(contentType))
}

func knownExtension(ext string) bool {
	if ext == "jpeg" {
		return true
	}
	for _, known := range contentTypes {
		if known == ext {
			return true
		}
	}

	return false
}

func translate(err error, msg string) error {
	switch minio.ToErrorResponse(err).Code {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return platformerrors.Wrap(err, platformerrors.CodeForbidden, msg)
	case "NoSuchBucket", "NoSuchKey":
		return platformerrors.Wrap(err, platformerrors.CodeNotFound, msg)
	}

	return platformerrors.Wrap(err, platformerrors.CodeUnavailable, msg)
}
