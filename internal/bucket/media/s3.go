package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DefaultUploadTimeout bounds a single upload so a stalled remote store
// fails the request instead of hanging it.
const DefaultUploadTimeout = 30 * time.Second

// S3Config carries everything needed to reach an S3-compatible object
// store (AWS or MinIO). PublicBaseURL is the prefix of the permanent
// retrieval URLs, e.g. "https://cdn.example.com/openup".
type S3Config struct {
	Endpoint      string // optional; set for MinIO or custom endpoints
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	KeyPrefix     string        // fixed logical namespace, e.g. "bucketlist"
	Timeout       time.Duration // zero means DefaultUploadTimeout
	UsePathStyle  bool          // required by MinIO
}

// S3Uploader implements Uploader against an S3-compatible store.
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
	prefix  string
	timeout time.Duration
}

// NewS3Uploader builds the S3 client once at process start; the resulting
// uploader is safe for concurrent use.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}

	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		prefix:  strings.Trim(cfg.KeyPrefix, "/"),
		timeout: timeout,
	}, nil
}

// Ingest puts the buffer into the bucket under the configured namespace and
// returns the permanent retrieval URL. Any transport or remote error, and
// any timeout, surfaces as ErrUploadFailed.
func (u *S3Uploader) Ingest(ctx context.Context, buf []byte, mimeType string) (string, error) {
	if len(buf) == 0 {
		return "", ErrEmptyBuffer
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	key := u.objectKey(mimeType)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	return u.baseURL + "/" + key, nil
}

// objectKey builds a collision-free key under the fixed namespace.
func (u *S3Uploader) objectKey(mimeType string) string {
	key := uuid.NewString() + extensionFor(mimeType)
	if u.prefix == "" {
		return key
	}
	return u.prefix + "/" + key
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
