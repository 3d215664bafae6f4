package repositories

import (
	"context"
	"errors"
	"fmt"

	"landora/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPropertyRepository is a GORM implementation of PropertyRepository.
type GORMPropertyRepository struct {
	db *gorm.DB
}

// NewGORMPropertyRepository creates a new instance of GORMPropertyRepository.
func NewGORMPropertyRepository(db *gorm.DB) *GORMPropertyRepository {
	return &GORMPropertyRepository{
		db: db,
	}
}

// GetAll retrieves all properties from the database.
func (r *GORMPropertyRepository) GetAll(ctx context.Context) ([]models.Property, error) {
	properties := make([]models.Property, 0)
	if err := r.db.WithContext(ctx).Find(&properties).Error; err != nil {
		return nil, fmt.Errorf("failed to get all properties: %w", err)
	}
	return properties, nil
}

// GetByID retrieves a single property by its ID from the database.
func (r *GORMPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	var property models.Property
	if err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property with ID %s: %w", id, models.ErrPropertyNotFound)
		}
		return nil, fmt.Errorf("failed to get property by ID %s: %w", id, err)
	}
	return &property, nil
}

// Create creates a new property in the database.
func (r *GORMPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if property.ID == "" {
		property.ID = uuid.New().String()
	}
	// Select keeps a false availability from being replaced by the column default.
	if err := r.db.WithContext(ctx).Select("*").Create(property).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// Update replaces the mutable columns of an existing property in one statement
// and reloads it. Availability is left out when the changes do not carry it.
func (r *GORMPropertyRepository) Update(ctx context.Context, id string, changes models.PropertyChanges) (*models.Property, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	columns := map[string]any{
		"name":        changes.Name,
		"location":    changes.Location,
		"price":       changes.Price,
		"description": changes.Description,
	}
	if changes.Availability != nil {
		columns["availability"] = *changes.Availability
	}

	db := r.db.WithContext(ctx)
	res := db.Model(&models.Property{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("property with ID %s not updated: %w", id, models.ErrPropertyNotFound)
	}
	var property models.Property
	if err := db.First(&property, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload property %s: %w", id, err)
	}
	return &property, nil
}

// Delete permanently deletes a property by its ID from the database.
func (r *GORMPropertyRepository) Delete(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("property with ID %s not deleted: %w", id, models.ErrPropertyNotFound)
	}
	return nil
}
