package remote

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store over a gorm database handle.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) FetchAll(ctx context.Context, table string, dest interface{}) error {
	err := g.db.WithContext(ctx).Table(table).Find(dest).Error
	return errors.Wrapf(err, "fetch all from %s", table)
}

func (g *GormStore) FetchOne(ctx context.Context, table string, filter map[string]interface{}, dest interface{}) error {
	err := g.db.WithContext(ctx).Table(table).Where(filter).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrapf(err, "fetch one from %s", table)
}

// Upsert performs an insert-or-replace keyed by the row's primary key.
func (g *GormStore) Upsert(ctx context.Context, table string, row interface{}) error {
	err := g.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
	return errors.Wrapf(err, "upsert into %s", table)
}

func (g *GormStore) Delete(ctx context.Context, table string, filter map[string]interface{}) error {
	err := g.db.WithContext(ctx).Table(table).Where(filter).Delete(&deletedRow{}).Error
	return errors.Wrapf(err, "delete from %s", table)
}

// deletedRow is a placeholder model; the table name comes from the statement.
type deletedRow struct{}
