package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a shop customer
type Customer struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:255;not null" json:"name"`
	Email string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone *string   `gorm:"size:50" json:"phone,omitempty"`
	CPF   *string   `gorm:"size:14;uniqueIndex" json:"cpf,omitempty"`

	// Address
	Street     *string `gorm:"size:255" json:"street,omitempty"`
	Number     *string `gorm:"size:20" json:"number,omitempty"`
	Complement *string `gorm:"size:255" json:"complement,omitempty"`
	District   *string `gorm:"size:100" json:"district,omitempty"`
	City       *string `gorm:"size:100" json:"city,omitempty"`
	State      *string `gorm:"size:2" json:"state,omitempty"`
	Zip        *string `gorm:"size:10" json:"zip,omitempty"`

	BirthDate *string `gorm:"size:20" json:"birth_date,omitempty"` // for birthday promotions
	Notes     *string `gorm:"type:text" json:"notes,omitempty"`

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
