package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is an inbound quote request from the public site
type ContactMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;index;not null" json:"email"`
	Phone       *string   `gorm:"size:50" json:"phone,omitempty"`
	PeopleCount *int      `json:"people_count,omitempty"`
	EventType   *string   `gorm:"size:100" json:"event_type,omitempty"`
	Date        *string   `gorm:"size:20" json:"date,omitempty"`
	Location    *string   `gorm:"size:255" json:"location,omitempty"`
	Notes       *string   `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new contact message
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ContactMessage model
func (ContactMessage) TableName() string {
	return "contact_messages"
}
