// Package repository provides a single generic GORM-backed CRUD implementation shared by
// every feature's data layer, parameterized over the GORM model type.
package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generic is a GORM-backed CRUD repository for any model with a uuid.UUID primary key.
type Generic[M any] struct {
	db *gorm.DB
}

// New creates a Generic repository bound to db for model type M.
func New[M any](db *gorm.DB) *Generic[M] {
	return &Generic[M]{db: db}
}

// DB exposes the underlying *gorm.DB, e.g. for feature-specific queries and transactions.
func (r *Generic[M]) DB() *gorm.DB {
	return r.db
}

// Create inserts a new row for m.
func (r *Generic[M]) Create(ctx context.Context, m *M) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID loads a row by primary key. Returns gorm.ErrRecordNotFound when absent.
func (r *Generic[M]) FindByID(ctx context.Context, id uuid.UUID) (*M, error) {
	var m M
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindOne loads the first row matching the given GORM query and args.
func (r *Generic[M]) FindOne(ctx context.Context, query string, args ...interface{}) (*M, error) {
	var m M
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindAll loads every row matching the given GORM query and args. An empty query loads all rows.
func (r *Generic[M]) FindAll(ctx context.Context, query string, args ...interface{}) ([]M, error) {
	var out []M
	tx := r.db.WithContext(ctx)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetMany loads every row whose columns match filters by equality. Nil entries and empty
// strings are ignored; other zero values (false, 0, uuid.Nil) are kept as filters.
func (r *Generic[M]) GetMany(ctx context.Context, filters map[string]interface{}) ([]M, error) {
	clean := make(map[string]interface{}, len(filters))
	for field, value := range filters {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		clean[field] = value
	}

	var out []M
	tx := r.db.WithContext(ctx)
	if len(clean) > 0 {
		tx = tx.Where(clean)
	}
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists every field of m, keyed by its primary key.
func (r *Generic[M]) Update(ctx context.Context, m *M) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete soft-deletes the row with the given id.
func (r *Generic[M]) Delete(ctx context.Context, id uuid.UUID) error {
	var m M
	return r.db.WithContext(ctx).Delete(&m, "id = ?", id).Error
}

// Transaction runs fn inside a single GORM transaction.
func (r *Generic[M]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
