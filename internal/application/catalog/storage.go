package catalog

import (
	"context"
	"time"
)

// UploadTarget describes a presigned direct-to-storage upload
type UploadTarget struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	Key       string            `json:"key"`
	PublicURL string            `json:"public_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ImageStorage stores product images in object storage
type ImageStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (*UploadTarget, error)
	DeleteObject(ctx context.Context, key string) error
	// KeyFromURL reports the object key behind a public URL served by this store
	KeyFromURL(url string) (string, bool)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}
