package signer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// SignImages generates signed URLs for every stored image of a property,
// fanning the presign calls out concurrently and waiting for all of them.
// A failure on one image leaves its SignedURL nil and never fails the batch;
// the normalizer-resolved public URL (if any) keeps serving that image.
func SignImages(ctx context.Context, s Signer, images []models.Image, expires time.Duration, logger *logrus.Logger) {
	if s == nil || len(images) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := range images {
		img := &images[i]
		if img.Path == nil || *img.Path == "" {
			continue
		}
		if img.SignedURL != nil && *img.SignedURL != "" {
			continue
		}

		wg.Add(1)
		go func(img *models.Image) {
			defer wg.Done()

			url, err := s.SignedURL(ctx, *img.Path, expires)
			if err != nil {
				if !errors.Is(err, ErrNotConfigured) && logger != nil {
					logger.WithError(err).WithFields(logrus.Fields{
						"image_id": img.ID,
						"key":      *img.Path,
					}).Warn("Failed to generate signed URL for image")
				}
				return
			}

			img.SignedURL = &url
			if img.URL == nil {
				img.URL = &url
			}
		}(img)
	}
	wg.Wait()
}
