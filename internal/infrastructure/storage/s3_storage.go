// Package storage stores product images in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	catalogapp "github.com/menswear/backend/internal/application/catalog"
	infraconfig "github.com/menswear/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ catalogapp.ImageStorage = (*S3ImageStore)(nil)

// S3ImageStore hands out presigned PUT URLs so browsers upload images directly.
// It works with AWS S3 and with MinIO-style endpoints.
type S3ImageStore struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	publicBase        string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// Option configures an S3ImageStore
type Option func(*S3ImageStore)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3ImageStore) {
		s.logger = logger
	}
}

// WithPresignExpiration overrides how long upload URLs stay valid
func WithPresignExpiration(d time.Duration) Option {
	return func(s *S3ImageStore) {
		s.presignExpiration = d
	}
}

// NewS3ImageStore creates an image store from configuration.
// An empty endpoint targets AWS itself.
func NewS3ImageStore(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...Option) (*S3ImageStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	store := &S3ImageStore{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		publicBase:        publicBase(cfg, endpoint, region),
		presignExpiration: cfg.PresignExpiration,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.presignExpiration <= 0 {
		store.presignExpiration = 15 * time.Minute
	}
	return store, nil
}

// publicBase resolves where uploaded objects can be read from
func publicBase(cfg *infraconfig.StorageConfig, endpoint, region string) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case endpoint != "" && cfg.UsePathStyle:
		return endpoint + "/" + cfg.Bucket
	case endpoint != "":
		u, _ := url.Parse(endpoint)
		return u.Scheme + "://" + cfg.Bucket + "." + u.Host
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
}

// PresignUpload returns a PUT URL the client uses to upload one image
func (s *S3ImageStore) PresignUpload(ctx context.Context, key, contentType string) (*catalogapp.UploadTarget, error) {
	if key == "" {
		return nil, errors.New("storage key is required")
	}

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	s.logger.Debug("Presigned image upload", zap.String("key", key))

	return &catalogapp.UploadTarget{
		UploadURL: req.URL,
		Method:    req.Method,
		Headers:   map[string]string{"Content-Type": contentType},
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresAt: time.Now().Add(s.presignExpiration).UTC(),
	}, nil
}

// PublicURL returns the read URL for a stored object
func (s *S3ImageStore) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// KeyFromURL maps a public URL produced by this store back to its key
func (s *S3ImageStore) KeyFromURL(publicURL string) (string, bool) {
	key, ok := strings.CutPrefix(publicURL, s.publicBase+"/")
	return key, ok && key != ""
}

// DeleteObject removes an object; deleting a missing key succeeds
func (s *S3ImageStore) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Bucket returns the bucket name
func (s *S3ImageStore) Bucket() string {
	return s.bucket
}
