package backfill

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alfgow/inmobiliaria-server/config"
	"github.com/alfgow/inmobiliaria-server/internal/database"
	"github.com/alfgow/inmobiliaria-server/internal/normalize"
	"github.com/alfgow/inmobiliaria-server/internal/queue"
)

// SlugBackfiller walks the whole listings table, derives a slug for every row
// that is missing one (or carries a duplicate), and writes the changes back in
// batches through the queue. Rows that already hold a unique slug are never
// touched.
type SlugBackfiller struct {
	db        *database.Database
	queue     *queue.InmuebleQueue
	config    *config.Config
	logger    *logrus.Logger
	waitGroup sync.WaitGroup
}

// Stats summarizes a backfill run.
type Stats struct {
	Scanned int
	Updated int
	Skipped int
}

func NewSlugBackfiller(db *database.Database, q *queue.InmuebleQueue, cfg *config.Config, logger *logrus.Logger) *SlugBackfiller {
	if logger == nil {
		logger = logrus.New()
	}
	return &SlugBackfiller{
		db:     db,
		queue:  q,
		config: cfg,
		logger: logger,
	}
}

// Start registers the batch writer on the queue and begins consuming.
func (b *SlugBackfiller) Start() {
	b.queue.Subscribe(func(batch []*database.Inmueble) error {
		defer b.waitGroup.Done()
		return b.writeBatch(batch)
	})
	b.queue.Start()
}

// Run scans every row, computes the slugs, and pushes the changed rows in
// batches. It blocks until every pushed batch has been written.
func (b *SlugBackfiller) Run(ctx context.Context) (*Stats, error) {
	inmuebles, err := b.db.ListAllInmuebles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inmuebles for backfill: %w", err)
	}

	stats := &Stats{Scanned: len(inmuebles)}
	seen := make(map[string]bool)
	changed := make([]*database.Inmueble, 0)

	for idx := range inmuebles {
		inmueble := &inmuebles[idx]
		slug := b.slugFor(inmueble)
		if seen[slug] {
			slug = fmt.Sprintf("%s-%d", slug, inmueble.ID)
		}
		seen[slug] = true

		if inmueble.Slug != nil && *inmueble.Slug == slug {
			stats.Skipped++
			continue
		}

		updated := slug
		inmueble.Slug = &updated
		changed = append(changed, inmueble)
	}

	batchSize := b.config.Backfill.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(changed); start += batchSize {
		end := start + batchSize
		if end > len(changed) {
			end = len(changed)
		}
		batch := changed[start:end]

		b.waitGroup.Add(1)
		if err := b.queue.Push(batch); err != nil {
			b.waitGroup.Done()
			return stats, fmt.Errorf("failed to enqueue slug batch: %w", err)
		}
		stats.Updated += len(batch)
	}

	b.waitGroup.Wait()

	b.logger.WithFields(logrus.Fields{
		"scanned": stats.Scanned,
		"updated": stats.Updated,
		"skipped": stats.Skipped,
	}).Info("Slug backfill completed")

	return stats, nil
}

// slugFor derives the canonical slug for a row: the folded title when one
// exists, the numeric id otherwise.
func (b *SlugBackfiller) slugFor(inmueble *database.Inmueble) string {
	if inmueble.Titulo != nil {
		if slug := normalize.Slugify(*inmueble.Titulo); slug != "" {
			return slug
		}
	}
	return fmt.Sprintf("%d", inmueble.ID)
}

// writeBatch persists one batch with transaction and retry logic.
func (b *SlugBackfiller) writeBatch(batch []*database.Inmueble) error {
	var err error
	for attempt := 0; attempt <= b.config.Backfill.MaxRetries; attempt++ {
		if attempt > 0 {
			b.logger.Infof("Retrying slug batch, attempt %d of %d", attempt, b.config.Backfill.MaxRetries)
			time.Sleep(time.Duration(b.config.Backfill.RetryDelay) * time.Second)
		}

		err = b.db.UpdateSlugs(batch)
		if err == nil {
			b.logger.Infof("Successfully updated slugs for %d inmuebles", len(batch))
			return nil
		}

		b.logger.Errorf("Slug batch failed: %v", err)
	}

	return fmt.Errorf("failed to update slug batch after %d attempts: %w", b.config.Backfill.MaxRetries, err)
}
