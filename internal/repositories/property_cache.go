package repositories

import (
	"context"
	"log/slog"
	"time"

	"landora/internal/models"
)

const (
	propertyListCacheKey = "properties:all"
	propertyCachePrefix  = "property:"
)

// Cache is the subset of a key/value cache the repository decorator needs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedPropertyRepository is a read-through cache in front of another repository.
// Cache failures are logged and the call falls through to the wrapped store.
type CachedPropertyRepository struct {
	next   PropertyRepository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedPropertyRepository wraps next with cache.
func NewCachedPropertyRepository(next PropertyRepository, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedPropertyRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedPropertyRepository{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedPropertyRepository) GetAll(ctx context.Context) ([]models.Property, error) {
	var cached []models.Property
	if hit, err := r.cache.Get(ctx, propertyListCacheKey, &cached); err != nil {
		r.logger.WarnContext(ctx, "property cache read failed", "key", propertyListCacheKey, "error", err)
	} else if hit {
		return cached, nil
	}

	properties, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, propertyListCacheKey, properties, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "property cache write failed", "key", propertyListCacheKey, "error", err)
	}
	return properties, nil
}

func (r *CachedPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	key := propertyCachePrefix + id
	var cached models.Property
	if hit, err := r.cache.Get(ctx, key, &cached); err != nil {
		r.logger.WarnContext(ctx, "property cache read failed", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	property, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, property, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "property cache write failed", "key", key, "error", err)
	}
	return property, nil
}

func (r *CachedPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	if err := r.next.Create(ctx, property); err != nil {
		return err
	}
	r.invalidate(ctx, propertyListCacheKey)
	return nil
}

func (r *CachedPropertyRepository) Update(ctx context.Context, id string, changes models.PropertyChanges) (*models.Property, error) {
	property, err := r.next.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, propertyListCacheKey, propertyCachePrefix+property.ID)
	return property, nil
}

func (r *CachedPropertyRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, propertyListCacheKey, propertyCachePrefix+id)
	return nil
}

func (r *CachedPropertyRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.WarnContext(ctx, "property cache invalidation failed", "keys", keys, "error", err)
	}
}
