package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"landora/internal/models"

	"github.com/google/uuid"
)

// MockPropertyRepository is an in-memory implementation of PropertyRepository.
// Records are returned in insertion order.
type MockPropertyRepository struct {
	properties map[string]models.Property
	order      []string
	mu         sync.RWMutex
}

// NewMockPropertyRepository creates a new instance of MockPropertyRepository.
func NewMockPropertyRepository() *MockPropertyRepository {
	return &MockPropertyRepository{
		properties: make(map[string]models.Property),
	}
}

// GetAll returns all properties.
func (r *MockPropertyRepository) GetAll(_ context.Context) ([]models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Property, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, r.properties[id])
	}
	return list, nil
}

// GetByID returns a property by its ID.
func (r *MockPropertyRepository) GetByID(_ context.Context, id string) (*models.Property, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	property, ok := r.properties[id]
	if !ok {
		return nil, fmt.Errorf("property with ID %s: %w", id, models.ErrPropertyNotFound)
	}
	return &property, nil
}

// Create adds a new property.
func (r *MockPropertyRepository) Create(_ context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	if _, exists := r.properties[property.ID]; exists {
		return fmt.Errorf("property with ID %s already exists", property.ID)
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now
	r.properties[property.ID] = *property
	r.order = append(r.order, property.ID)
	return nil
}

// Update replaces the mutable fields of an existing property.
func (r *MockPropertyRepository) Update(_ context.Context, id string, changes models.PropertyChanges) (*models.Property, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.properties[id]
	if !ok {
		return nil, fmt.Errorf("property with ID %s not updated: %w", id, models.ErrPropertyNotFound)
	}
	stored.Apply(changes)
	stored.UpdatedAt = time.Now().UTC()
	// Key by the stored id: the caller's string may alias a reused request buffer.
	r.properties[stored.ID] = stored
	return &stored, nil
}

// Delete removes a property by its ID.
func (r *MockPropertyRepository) Delete(_ context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[id]; !ok {
		return fmt.Errorf("property with ID %s not deleted: %w", id, models.ErrPropertyNotFound)
	}
	delete(r.properties, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func checkUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, models.ErrInvalidPropertyID)
	}
	return nil
}
