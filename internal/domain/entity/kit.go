package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kit is a fixed bundle of goods sold as a single catalog entry, priced
// independently of its constituent products
type Kit struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Price       int64     `gorm:"not null" json:"-"` // cents

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON converts the cent price to a decimal for API responses
func (k Kit) MarshalJSON() ([]byte, error) {
	type Alias Kit
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(k),
		Price: float64(k.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new kit
func (k *Kit) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Kit model
func (Kit) TableName() string {
	return "kits"
}
