// internal/storage/db.go
package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javiei/proomtb-backend/internal/models"
)

// DBStore keeps the mirror in the cart_snapshots table, one row per key.
// Last writer wins; there is no cross-client coordination.
type DBStore struct {
	db  *gorm.DB
	key string
}

func NewDBStore(db *gorm.DB, key string) *DBStore {
	return &DBStore{db: db, key: key}
}

func (d *DBStore) Load() ([]byte, error) {
	var snapshot models.CartSnapshot
	if err := d.db.First(&snapshot, "key = ?", d.key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	return []byte(snapshot.Data), nil
}

func (d *DBStore) Save(data []byte) error {
	snapshot := models.CartSnapshot{
		Key:  d.key,
		Data: string(data),
	}

	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}
