package repositories

import (
	"context"

	"landora/internal/models"
)

// PropertyRepository defines the interface for property data access.
// Implementations return models.ErrPropertyNotFound for absent IDs and
// models.ErrInvalidPropertyID for IDs the store cannot represent.
type PropertyRepository interface {
	GetAll(ctx context.Context) ([]models.Property, error)
	GetByID(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, id string, changes models.PropertyChanges) (*models.Property, error)
	Delete(ctx context.Context, id string) error
}
