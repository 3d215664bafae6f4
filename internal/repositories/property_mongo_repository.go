package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"landora/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// propertyDocument is the BSON shape of a property in the collection.
type propertyDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Location     string             `bson:"location"`
	Price        float64            `bson:"price"`
	Description  string             `bson:"description"`
	Availability bool               `bson:"availability"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d propertyDocument) toModel() models.Property {
	return models.Property{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Location:     d.Location,
		Price:        d.Price,
		Description:  d.Description,
		Availability: d.Availability,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoPropertyRepository stores properties as documents keyed by ObjectID.
type MongoPropertyRepository struct {
	collection *mongo.Collection
}

// NewMongoPropertyRepository creates a repository over the given collection.
func NewMongoPropertyRepository(collection *mongo.Collection) *MongoPropertyRepository {
	return &MongoPropertyRepository{collection: collection}
}

// ParseObjectID converts a hex id into an ObjectID, mapping failures to ErrInvalidPropertyID.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%q: %w", id, models.ErrInvalidPropertyID)
	}
	return oid, nil
}

// GetAll returns every document in natural order.
func (r *MongoPropertyRepository) GetAll(ctx context.Context) ([]models.Property, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all properties: %w", err)
	}
	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	properties := make([]models.Property, 0, len(docs))
	for _, d := range docs {
		properties = append(properties, d.toModel())
	}
	return properties, nil
}

// GetByID returns the document with the given ObjectID.
func (r *MongoPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc propertyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("property with ID %s: %w", id, models.ErrPropertyNotFound)
		}
		return nil, fmt.Errorf("failed to get property by ID %s: %w", id, err)
	}
	property := doc.toModel()
	return &property, nil
}

// Create inserts a new document; the ObjectID is generated here.
func (r *MongoPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	now := time.Now().UTC()
	doc := propertyDocument{
		ID:           primitive.NewObjectID(),
		Name:         property.Name,
		Location:     property.Location,
		Price:        property.Price,
		Description:  property.Description,
		Availability: property.Availability,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	*property = doc.toModel()
	return nil
}

// Update replaces the mutable fields atomically and returns the new document.
// Availability is left out of the $set when the changes do not carry it.
func (r *MongoPropertyRepository) Update(ctx context.Context, id string, changes models.PropertyChanges) (*models.Property, error) {
	oid, err := ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"name":        changes.Name,
		"location":    changes.Location,
		"price":       changes.Price,
		"description": changes.Description,
		"updatedAt":   time.Now().UTC(),
	}
	if changes.Availability != nil {
		set["availability"] = *changes.Availability
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc propertyDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("property with ID %s not updated: %w", id, models.ErrPropertyNotFound)
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	property := doc.toModel()
	return &property, nil
}

// Delete removes the document with the given ObjectID.
func (r *MongoPropertyRepository) Delete(ctx context.Context, id string) error {
	oid, err := ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("property with ID %s not deleted: %w", id, models.ErrPropertyNotFound)
	}
	return nil
}
