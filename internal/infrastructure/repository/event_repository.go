package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	domainRepo "github.com/mateusallves/doceria-api/internal/domain/repository"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) domainRepo.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Event{}, "id = ?", id).Error
}

func (r *eventRepository) List(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error
	return events, err
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db *gorm.DB) domainRepo.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, message *entity.ContactMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	var message entity.ContactMessage
	err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ContactMessage{}, "id = ?", id).Error
}

func (r *contactRepository) List(ctx context.Context) ([]entity.ContactMessage, error) {
	var messages []entity.ContactMessage
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&messages).Error
	return messages, err
}
