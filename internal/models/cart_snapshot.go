// internal/models/cart_snapshot.go
package models

import "time"

// CartSnapshot is the durable mirror of an in-memory cart, one JSON blob per
// key. It is write-mostly: the only read happens at startup.
type CartSnapshot struct {
	Key       string    `json:"key" gorm:"primaryKey;size:128"`
	Data      string    `json:"data" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
