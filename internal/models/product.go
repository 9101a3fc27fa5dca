// internal/models/product.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// RawProduct is a catalog row exactly as the hosted data service stores it.
// The flexible columns are deliberately untyped: images may hold a native
// JSON array, a JSON-encoded string or nothing at all, with single images
// sometimes living in image or image_url instead. Interpretation happens in
// internal/catalog, never here.
type RawProduct struct {
	ID          string    `json:"id" gorm:"primaryKey;size:64"`
	Name        string    `json:"name" gorm:"size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category" gorm:"size:100;index"`
	Brand       string    `json:"brand" gorm:"size:100;index"`
	Model       string    `json:"model" gorm:"size:100"`
	Price       RawJSON   `json:"price" gorm:"type:jsonb"`
	OldPrice    RawJSON   `json:"old_price" gorm:"type:jsonb"`
	Images      RawJSON   `json:"images" gorm:"type:jsonb"`
	Image       string    `json:"image" gorm:"type:text"`
	ImageURL    string    `json:"image_url" gorm:"type:text"`
	Colors      RawJSON   `json:"colors" gorm:"type:jsonb"`
	Sizes       RawJSON   `json:"sizes" gorm:"type:jsonb"`
	Stock       RawJSON   `json:"stock" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (RawProduct) TableName() string {
	return "products"
}

// CatalogEntry is the persisted normalized projection of a RawProduct,
// refreshed in bulk by the catalog service so reads survive restarts with a
// cold in-memory cache.
type CatalogEntry struct {
	ProductID   string         `json:"product_id" gorm:"primaryKey;size:64"`
	Name        string         `json:"name" gorm:"size:255"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Brand       string         `json:"brand" gorm:"size:100;index"`
	Model       string         `json:"model" gorm:"size:100"`
	Price       float64        `json:"price" gorm:"type:decimal(10,2);index"`
	OldPrice    float64        `json:"old_price" gorm:"type:decimal(10,2)"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Colors      pq.StringArray `json:"colors" gorm:"type:text[]"`
	Sizes       pq.StringArray `json:"sizes" gorm:"type:text[]"`
	Stock       int            `json:"stock" gorm:"default:0"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (CatalogEntry) TableName() string {
	return "catalog_entries"
}
