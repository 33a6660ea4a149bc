package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mateusallves/doceria-api/internal/domain/entity"
	"github.com/mateusallves/doceria-api/internal/domain/repository"
	"github.com/mateusallves/doceria-api/pkg/apperror"
)

// EventService handles showcase events and inbound contact messages
type EventService struct {
	eventRepo   repository.EventRepository
	contactRepo repository.ContactRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository, contactRepo repository.ContactRepository) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		contactRepo: contactRepo,
	}
}

// EventInput represents the create/update event input
type EventInput struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
}

// ContactInput represents an inbound quote request
type ContactInput struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       *string `json:"phone"`
	PeopleCount *int    `json:"people_count"`
	EventType   *string `json:"event_type"`
	Date        *string `json:"date"`
	Location    *string `json:"location"`
	Notes       *string `json:"notes"`
}

// CreateEvent creates a new showcase event
func (s *EventService) CreateEvent(ctx context.Context, input *EventInput) (*entity.Event, error) {
	event := &entity.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperror.NewNotFoundError("Event")
	}
	return event, nil
}

// UpdateEvent replaces an event's editable fields
func (s *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, input *EventInput) (*entity.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Date = input.Date

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event
func (s *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEvent(ctx, id); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}

// ListEvents lists events, newest first
func (s *EventService) ListEvents(ctx context.Context) ([]entity.Event, error) {
	return s.eventRepo.List(ctx)
}

// CreateContactMessage records an inbound quote request from the public site
func (s *EventService) CreateContactMessage(ctx context.Context, input *ContactInput) (*entity.ContactMessage, error) {
	message := &entity.ContactMessage{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		PeopleCount: input.PeopleCount,
		EventType:   input.EventType,
		Date:        input.Date,
		Location:    input.Location,
		Notes:       input.Notes,
	}
	if err := s.contactRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetContactMessage retrieves a contact message by ID
func (s *EventService) GetContactMessage(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	message, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, apperror.NewNotFoundError("Contact message")
	}
	return message, nil
}

// DeleteContactMessage removes a handled contact message
func (s *EventService) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetContactMessage(ctx, id); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, id)
}

// ListContactMessages lists contact messages, newest first
func (s *EventService) ListContactMessages(ctx context.Context) ([]entity.ContactMessage, error) {
	return s.contactRepo.List(ctx)
}
