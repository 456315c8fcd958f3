package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "product-images",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3ImageStore_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3ImageStore(ctx, nil)
	assert.ErrorContains(t, err, "configuration is required")

	_, err = NewS3ImageStore(ctx, &config.StorageConfig{AccessKey: "k", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3ImageStore(ctx, &config.StorageConfig{Bucket: "b", AccessKey: "k"})
	assert.ErrorContains(t, err, "secret key are required")
}

func TestNewS3ImageStore_Defaults(t *testing.T) {
	store, err := NewS3ImageStore(context.Background(), testStorageConfig())
	require.NoError(t, err)

	assert.Equal(t, "product-images", store.Bucket())
	assert.Equal(t, 15*time.Minute, store.presignExpiration)
}

func TestPublicURL(t *testing.T) {
	ctx := context.Background()

	t.Run("path style endpoint", func(t *testing.T) {
		store, err := NewS3ImageStore(ctx, testStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/product-images/products/a.jpg", store.PublicURL("products/a.jpg"))
	})

	t.Run("virtual host endpoint", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.UsePathStyle = false
		cfg.Endpoint = "cdn.example.com"
		store, err := NewS3ImageStore(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://product-images.cdn.example.com/k.png", store.PublicURL("k.png"))
	})

	t.Run("aws default", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Endpoint = ""
		cfg.UsePathStyle = false
		cfg.Region = "eu-west-2"
		store, err := NewS3ImageStore(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://product-images.s3.eu-west-2.amazonaws.com/k.png", store.PublicURL("k.png"))
	})

	t.Run("explicit public url wins", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PublicURL = "https://images.example.com/"
		store, err := NewS3ImageStore(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://images.example.com/k.png", store.PublicURL("k.png"))

		key, ok := store.KeyFromURL("https://images.example.com/products/x/y.png")
		assert.True(t, ok)
		assert.Equal(t, "products/x/y.png", key)

		_, ok = store.KeyFromURL("https://elsewhere.example.com/y.png")
		assert.False(t, ok)
	})
}

func TestPresignUpload(t *testing.T) {
	store, err := NewS3ImageStore(context.Background(), testStorageConfig(), WithPresignExpiration(5*time.Minute))
	require.NoError(t, err)

	target, err := store.PresignUpload(context.Background(), "products/p1/img.jpg", "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "PUT", target.Method)
	assert.Equal(t, "products/p1/img.jpg", target.Key)
	assert.Equal(t, "image/jpeg", target.Headers["Content-Type"])
	assert.Equal(t, "http://localhost:9000/product-images/products/p1/img.jpg", target.PublicURL)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), target.ExpiresAt, 5*time.Second)

	u, err := url.Parse(target.UploadURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.Path, "/product-images/products/p1/img.jpg"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
}

func TestPresignUpload_EmptyKey(t *testing.T) {
	store, err := NewS3ImageStore(context.Background(), testStorageConfig())
	require.NoError(t, err)

	_, err = store.PresignUpload(context.Background(), "", "image/jpeg")
	assert.Error(t, err)
	assert.Error(t, store.DeleteObject(context.Background(), ""))
}
