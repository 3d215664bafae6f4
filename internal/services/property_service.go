package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"landora/internal/models"
	"landora/internal/repositories"
	"landora/internal/validation"
)

// Routing keys for property lifecycle events.
const (
	EventPropertyCreated = "property.created"
	EventPropertyUpdated = "property.updated"
	EventPropertyDeleted = "property.deleted"
)

// EventPublisher delivers serialized events to a broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// PropertyEvent is the message published after every successful mutation.
type PropertyEvent struct {
	Type       string           `json:"type"`
	PropertyID string           `json:"property_id"`
	Property   *models.Property `json:"property,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// PropertyInput carries the client supplied fields of a create or update.
// A nil Availability means the field was omitted.
type PropertyInput struct {
	Name         string  `json:"name"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	Availability *bool   `json:"availability"`
}

func (in PropertyInput) toModel(defaultAvailability bool) models.Property {
	availability := defaultAvailability
	if in.Availability != nil {
		availability = *in.Availability
	}
	return models.Property{
		Name:         in.Name,
		Location:     in.Location,
		Price:        in.Price,
		Description:  in.Description,
		Availability: availability,
	}
}

// PropertyService handles business logic related to properties.
type PropertyService struct {
	repo      repositories.PropertyRepository
	validator *validation.Validator
	publisher EventPublisher
	logger    *slog.Logger
}

// NewPropertyService creates a new PropertyService. publisher may be nil.
func NewPropertyService(repo repositories.PropertyRepository, publisher EventPublisher, logger *slog.Logger) *PropertyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyService{
		repo:      repo,
		validator: validation.New(),
		publisher: publisher,
		logger:    logger,
	}
}

// GetAllProperties retrieves every property. The result is never nil.
func (s *PropertyService) GetAllProperties(ctx context.Context) ([]models.Property, error) {
	properties, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

// GetPropertyByID retrieves a single property by its ID.
func (s *PropertyService) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProperty validates the input, persists it and returns the stored record.
// Availability defaults to true when omitted.
func (s *PropertyService) CreateProperty(ctx context.Context, in PropertyInput) (*models.Property, error) {
	property := in.toModel(true)
	if err := s.validator.Struct(property); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &property); err != nil {
		return nil, err
	}
	s.publish(ctx, EventPropertyCreated, property.ID, &property)
	return &property, nil
}

// UpdateProperty replaces every mutable field of the property with id.
// An omitted availability keeps the stored value; the store leaves that field
// out of the write so concurrent updates cannot restore a stale value.
func (s *PropertyService) UpdateProperty(ctx context.Context, id string, in PropertyInput) (*models.Property, error) {
	if err := s.validator.Struct(in.toModel(true)); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, models.PropertyChanges{
		Name:         in.Name,
		Location:     in.Location,
		Price:        in.Price,
		Description:  in.Description,
		Availability: in.Availability,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventPropertyUpdated, updated.ID, updated)
	return updated, nil
}

// DeleteProperty permanently removes a property by its ID.
func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventPropertyDeleted, id, nil)
	return nil
}

func (s *PropertyService) publish(ctx context.Context, eventType, id string, property *models.Property) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(PropertyEvent{
		Type:       eventType,
		PropertyID: id,
		Property:   property,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal property event", "event", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.logger.WarnContext(ctx, "failed to publish property event", "event", eventType, "property_id", id, "error", err)
	}
}
