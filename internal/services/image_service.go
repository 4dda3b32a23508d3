package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"tradesync/internal/config"
	"tradesync/internal/trademaster"
)

// ImageService downloads vendor photos into the local object store so the
// storefront never hotlinks the vendor's cache. Failures are reported to the
// task queue for retry but never fail a sync pass.
type ImageService struct {
	store  ObjectStore
	http   *http.Client
	bucket string
	tm     config.TradeMasterConfig
}

func NewImageService(store ObjectStore, cfg *config.Config) *ImageService {
	return &ImageService{
		store:  store,
		bucket: cfg.Minio.Bucket,
		tm:     cfg.TradeMaster,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchAndStore pulls one photo from the vendor file cache and stores it
// under <kind>/<record id><ext>.
func (s *ImageService) FetchAndStore(ctx context.Context, photo, kind string, id uuid.UUID) error {
	url := trademaster.FileURL(s.tm.CacheHost, s.tm.CacheFolder, photo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build image request: %w", err)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image %s: %w", photo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch image %s: unexpected status %d", photo, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	object := kind + "/" + id.String() + path.Ext(photo)
	if err := s.store.Upload(ctx, s.bucket, object, contentType, resp.Body, resp.ContentLength); err != nil {
		return fmt.Errorf("store image %s: %w", object, err)
	}

	log.Printf("images: cached %s for %s %s", photo, kind, id)
	return nil
}

// EnsureBucket prepares the image bucket at startup.
func (s *ImageService) EnsureBucket(ctx context.Context) error {
	return s.store.EnsureBucketExists(ctx, s.bucket)
}
