package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database wraps the GORM handle for the listings store.
type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	if logger == nil {
		logger = logrus.New()
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	return &Database{db: db, logger: logger}, nil
}

// GetDB exposes the underlying handle for migrations and batch writers.
func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// RunMigrations creates or upgrades the listings schema in place.
func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&Estatus{}, &Inmueble{}, &Imagen{}); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}
	return nil
}

// ListInmuebles returns up to limit rows, featured first and newest next,
// with their status and ordered gallery preloaded. An optional query narrows
// by a byte-level LIKE over title, city and state. LIKE cannot fold
// diacritics, so callers needing the full search semantics must fetch
// unnarrowed and match in memory instead.
func (d *Database) ListInmuebles(ctx context.Context, limit int, query string) ([]Inmueble, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	tx := d.db.WithContext(ctx).
		Preload("Estatus").
		Preload("Imagenes", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC, created_at ASC")
		}).
		Order("destacado DESC").
		Order("created_at DESC").
		Limit(limit)

	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("titulo LIKE ? OR municipio LIKE ? OR estado LIKE ?", pattern, pattern, pattern)
	}

	var inmuebles []Inmueble
	if err := tx.Find(&inmuebles).Error; err != nil {
		return nil, fmt.Errorf("failed to list inmuebles: %v", err)
	}
	return inmuebles, nil
}

// GetInmuebleBySlug looks a row up by its stored slug. Returns (nil, nil)
// when no row matches.
func (d *Database) GetInmuebleBySlug(ctx context.Context, slug string) (*Inmueble, error) {
	var inmueble Inmueble
	err := d.db.WithContext(ctx).
		Preload("Estatus").
		Preload("Imagenes", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC, created_at ASC")
		}).
		Where("slug = ?", slug).
		First(&inmueble).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inmueble by slug: %v", err)
	}
	return &inmueble, nil
}

// ListAllInmuebles returns every row ordered by id, without associations.
// Used by the slug backfill.
func (d *Database) ListAllInmuebles(ctx context.Context) ([]Inmueble, error) {
	var inmuebles []Inmueble
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&inmuebles).Error; err != nil {
		return nil, fmt.Errorf("failed to list inmuebles: %v", err)
	}
	return inmuebles, nil
}

// UpdateSlugs persists slug changes for a batch of rows in one transaction.
func (d *Database) UpdateSlugs(batch []*Inmueble) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		for _, inmueble := range batch {
			err := tx.Model(&Inmueble{}).
				Where("id = ?", inmueble.ID).
				Update("slug", inmueble.Slug).Error
			if err != nil {
				return fmt.Errorf("failed to update slug for inmueble %d: %w", inmueble.ID, err)
			}
		}
		return nil
	})
}
