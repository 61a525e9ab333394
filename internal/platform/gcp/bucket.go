// Package gcp holds the storage-backed asset resolver. Course assets
// (slide images, PDFs) and downloadable resources live in a GCS bucket;
// exports reference them either through public/CDN URLs or short-lived
// signed URLs.
package gcp

import (
	"context"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/campusforge/portal-export/internal/platform/logger"
)

type AssetResolver interface {
	// PublicURL maps a bucket key to a directly displayable URL.
	PublicURL(key string) string
	// SignedURL issues a time-limited download URL for a bucket key.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type assetResolver struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	cdnDomain     string
}

func NewAssetResolver(log *logger.Logger) (AssetResolver, error) {
	resolverLog := log.With("service", "AssetResolver")
	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := os.Getenv("CDN_DOMAIN")
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	if saPath == "" {
		resolverLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, falling back to ambient ADC")
	}

	ctx := context.Background()
	var client *storage.Client
	var err error
	if saPath != "" {
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadOnly))
	} else {
		client, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadOnly))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &assetResolver{
		log:           resolverLog,
		storageClient: client,
		bucketName:    bucket,
		cdnDomain:     cdnDomain,
	}, nil
}

func (ar *assetResolver) PublicURL(key string) string {
	if ar.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", ar.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", ar.bucketName, key)
}

func (ar *assetResolver) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	url, err := ar.storageClient.Bucket(ar.bucketName).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %q: %w", key, err)
	}
	return url, nil
}
