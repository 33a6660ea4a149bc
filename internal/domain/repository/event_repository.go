package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Event, error)
}

// ContactRepository defines the interface for contact message operations
type ContactRepository interface {
	Create(ctx context.Context, message *entity.ContactMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.ContactMessage, error)
}
