package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string, opts ...option.ClientOption) (*storage.Client, error) {
	if credsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credsPath))
	}
	return storage.NewClient(ctx, opts...)
}

// GCSBucket lists and signs objects in a Cloud Storage bucket.
type GCSBucket struct {
	client *storage.Client
	Bucket string
}

func NewGCSBucket(client *storage.Client, bucket string) (*GCSBucket, error) {
	if client == nil || bucket == "" {
		return nil, errors.New("gcs client and bucket are required")
	}
	return &GCSBucket{client: client, Bucket: bucket}, nil
}

func (b *GCSBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	it := b.client.Bucket(b.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

// SignedURL returns a V4 signed GET URL. The client's credentials must be
// able to sign (service account key or IAM signBlob).
func (b *GCSBucket) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return b.client.Bucket(b.Bucket).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
}

// PublicURL builds a public URL for an object (assuming public read access)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, EscapeObjectPath(objectPath))
}

// PublicAssets serves assets from a public base URL without signing.
type PublicAssets struct {
	BaseURL string
}

func (p PublicAssets) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if p.BaseURL == "" {
		return "", errors.New("public asset base url not configured")
	}
	return strings.TrimRight(p.BaseURL, "/") + "/" + EscapeObjectPath(key), nil
}

// EscapeObjectPath escapes each path segment, keeping the separators.
func EscapeObjectPath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
