// internal/models/order.go
package models

import "github.com/google/uuid"

type Order struct {
	BaseModel
	UserID string      `json:"user_id" gorm:"size:64;index;not null"`
	Status OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Total  float64     `json:"total" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots a cart line at checkout time so later catalog edits
// never rewrite order history.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;index;not null"`
	ProductID string    `json:"product_id" gorm:"size:64;not null"`
	Name      string    `json:"name" gorm:"size:255"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Image     string    `json:"image" gorm:"type:text"`
	Color     string    `json:"color" gorm:"size:50"`
	Size      string    `json:"size" gorm:"size:50"`
}
