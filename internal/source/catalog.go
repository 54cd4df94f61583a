package source

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/internal/models"
	"github.com/alfgow/inmobiliaria-server/internal/normalize"
	"github.com/alfgow/inmobiliaria-server/internal/signer"
)

// ErrUnavailable is the only error the catalog ever surfaces: the underlying
// cause has already been logged and must not leak to consumers.
var ErrUnavailable = errors.New("properties unavailable")

// Catalog glues the three pipeline stages together: fetch raw records from
// the active backend, normalize them into canonical properties, then attach
// signed URLs for privately stored media.
type Catalog struct {
	source     Source
	normalizer *normalize.Normalizer
	signer     signer.Signer
	signExpiry time.Duration
	logger     *logrus.Logger
}

func NewCatalog(src Source, n *normalize.Normalizer, s signer.Signer, signExpiry time.Duration, logger *logrus.Logger) *Catalog {
	if logger == nil {
		logger = logrus.New()
	}
	if n == nil {
		n = normalize.New()
	}
	if signExpiry <= 0 {
		signExpiry = signer.DefaultExpiry
	}
	return &Catalog{
		source:     src,
		normalizer: n,
		signer:     s,
		signExpiry: signExpiry,
		logger:     logger,
	}
}

// ListProperties returns the normalized batch with unique slugs and signed
// media. Backend failures degrade to an empty slice plus ErrUnavailable; no
// transport detail escapes this layer.
func (c *Catalog) ListProperties(ctx context.Context, opts ListOptions) ([]models.Property, error) {
	raws, err := c.source.ListProperties(ctx, opts)
	if err != nil {
		c.logger.WithError(err).Error("Failed to list properties")
		return []models.Property{}, ErrUnavailable
	}

	properties := make([]models.Property, 0, len(raws))
	for _, raw := range raws {
		properties = append(properties, c.normalizer.Normalize(raw))
	}

	normalize.EnsureUniqueSlugs(properties)

	for i := range properties {
		signer.SignImages(ctx, c.signer, properties[i].Images, c.signExpiry, c.logger)
	}

	return properties, nil
}

// GetPropertyBySlug returns nil both for a missing property and for a backend
// failure; the failure case is logged here and the caller renders the same
// not-found state either way.
func (c *Catalog) GetPropertyBySlug(ctx context.Context, slug string) *models.Property {
	raw, err := c.source.GetBySlug(ctx, slug)
	if err != nil {
		c.logger.WithError(err).WithField("slug", slug).Error("Failed to get property by slug")
		return nil
	}
	if raw == nil {
		return nil
	}

	property := c.normalizer.Normalize(raw)
	signer.SignImages(ctx, c.signer, property.Images, c.signExpiry, c.logger)
	return &property
}
