package source

import (
	"context"

	"github.com/alfgow/inmobiliaria-server/internal/database"
	"github.com/alfgow/inmobiliaria-server/internal/models"
)

// DatabaseSource serves raw records straight from the ORM-backed store,
// preserving the legacy payload shape so the normalizer stays the single
// place that understands it.
type DatabaseSource struct {
	db *database.Database
}

func NewDatabaseSource(db *database.Database) *DatabaseSource {
	return &DatabaseSource{db: db}
}

func (s *DatabaseSource) ListProperties(ctx context.Context, opts ListOptions) ([]models.RawProperty, error) {
	inmuebles, err := s.db.ListInmuebles(ctx, opts.effectiveLimit(), opts.Query)
	if err != nil {
		return nil, err
	}

	raws := make([]models.RawProperty, 0, len(inmuebles))
	for i := range inmuebles {
		raws = append(raws, inmuebles[i].ToRaw())
	}
	return raws, nil
}

func (s *DatabaseSource) GetBySlug(ctx context.Context, slug string) (models.RawProperty, error) {
	inmueble, err := s.db.GetInmuebleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if inmueble == nil {
		return nil, nil
	}
	return inmueble.ToRaw(), nil
}
