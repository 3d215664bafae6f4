package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"landora/internal/models"

	"github.com/spf13/cast"
)

// StorageKey is the single key under which the property list is persisted.
const StorageKey = "properties"

// LocalStorage is a string key/value store in the manner of a browser's local storage.
type LocalStorage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// FileStorage keeps all keys in one JSON object on disk.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage returns storage backed by path. The file is created on first write.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *FileStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.read()
	if err != nil {
		return err
	}
	items[key] = value

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".landora-*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (s *FileStorage) read() (map[string]string, error) {
	items := map[string]string{}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("corrupt storage file %s: %w", s.path, err)
	}
	return items, nil
}

// MemoryStorage is a LocalStorage that lives only in memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (s *MemoryStorage) GetItem(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// storedProperty is the persisted record. Price and availability are written
// as strings but read back from either strings or JSON scalars.
type storedProperty struct {
	ID           any    `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Price        any    `json:"price"`
	Description  string `json:"description"`
	Availability any    `json:"availability"`
}

// EncodeProperties serialises the list in the console's string encoding.
func EncodeProperties(list []models.Property) (string, error) {
	records := make([]storedProperty, 0, len(list))
	for _, p := range list {
		records = append(records, storedProperty{
			ID:           p.ID,
			Name:         p.Name,
			Location:     p.Location,
			Price:        strconv.FormatFloat(p.Price, 'f', -1, 64),
			Description:  p.Description,
			Availability: strconv.FormatBool(p.Availability),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode properties: %w", err)
	}
	return string(data), nil
}

// DecodeProperties parses a persisted list. Records whose price or availability
// cannot be coerced are rejected.
func DecodeProperties(raw string) ([]models.Property, error) {
	var records []storedProperty
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}

	out := make([]models.Property, 0, len(records))
	for i, r := range records {
		id, err := cast.ToStringE(r.ID)
		if err != nil || id == "" {
			return nil, fmt.Errorf("property %d: invalid id %v", i, r.ID)
		}
		price, err := cast.ToFloat64E(r.Price)
		if err != nil {
			return nil, fmt.Errorf("property %s: invalid price: %w", id, err)
		}
		available := true
		if r.Availability != nil && r.Availability != "" {
			if available, err = cast.ToBoolE(r.Availability); err != nil {
				return nil, fmt.Errorf("property %s: invalid availability: %w", id, err)
			}
		}
		out = append(out, models.Property{
			ID:           id,
			Name:         r.Name,
			Location:     r.Location,
			Price:        price,
			Description:  r.Description,
			Availability: available,
		})
	}
	return out, nil
}
