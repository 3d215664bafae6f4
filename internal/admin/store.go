package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"landora/internal/models"
	"landora/internal/validation"
)

// State is everything the console renders.
type State struct {
	Properties []models.Property
	Query      string
}

// Action is a typed state transition.
type Action interface {
	action()
}

// Create adds a property. The store fills ID before reducing.
type Create struct {
	ID   string
	Form PropertyForm
}

// Update replaces every mutable field of the property with ID.
type Update struct {
	ID   string
	Form PropertyForm
}

// Delete removes the property with ID.
type Delete struct {
	ID string
}

// SetSearch changes the search query.
type SetSearch struct {
	Query string
}

func (Create) action()    {}
func (Update) action()    {}
func (Delete) action()    {}
func (SetSearch) action() {}

// ErrMissingID is returned when a Create action reaches Reduce without an id.
var ErrMissingID = errors.New("property id is required")

// Reduce applies a to s and returns the next state. s is never modified.
func Reduce(s State, a Action) (State, error) {
	next := State{
		Properties: append([]models.Property(nil), s.Properties...),
		Query:      s.Query,
	}

	switch a := a.(type) {
	case Create:
		if a.ID == "" {
			return s, ErrMissingID
		}
		if indexOf(next.Properties, a.ID) >= 0 {
			return s, fmt.Errorf("property %s already exists", a.ID)
		}
		p, err := a.Form.ToProperty(a.ID)
		if err != nil {
			return s, err
		}
		next.Properties = append(next.Properties, p)
	case Update:
		i := indexOf(next.Properties, a.ID)
		if i < 0 {
			return s, fmt.Errorf("property %s: %w", a.ID, models.ErrPropertyNotFound)
		}
		p, err := a.Form.ToProperty(a.ID)
		if err != nil {
			return s, err
		}
		next.Properties[i].ApplyChanges(p)
	case Delete:
		i := indexOf(next.Properties, a.ID)
		if i < 0 {
			return s, fmt.Errorf("property %s: %w", a.ID, models.ErrPropertyNotFound)
		}
		next.Properties = append(next.Properties[:i], next.Properties[i+1:]...)
	case SetSearch:
		next.Query = a.Query
	default:
		return s, fmt.Errorf("unknown action %T", a)
	}
	return next, nil
}

func indexOf(list []models.Property, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Store holds the console state, validates forms and persists every change.
type Store struct {
	mu        sync.Mutex
	state     State
	storage   LocalStorage
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
	lastID    int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, which is used to mint ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore reads the persisted list once and returns a store over it.
func NewStore(storage LocalStorage, logger *slog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage:   storage,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := storage.GetItem(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}
	if ok && raw != "" {
		list, err := DecodeProperties(raw)
		if err != nil {
			return nil, err
		}
		s.state.Properties = list
	}
	for _, p := range s.state.Properties {
		if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	return s, nil
}

// Dispatch validates and applies a. Form failures are returned as
// validation.Errors and leave the state untouched. Persisting is best effort:
// a storage failure is logged and the new state is kept.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch act := a.(type) {
	case Create:
		if err := act.Form.Validate(s.validator); err != nil {
			return s.snapshot(), err
		}
		if act.ID == "" {
			act.ID = s.nextID()
		}
		a = act
	case Update:
		if err := act.Form.Validate(s.validator); err != nil {
			return s.snapshot(), err
		}
	}

	next, err := Reduce(s.state, a)
	if err != nil {
		return s.snapshot(), err
	}
	s.state = next

	if _, ok := a.(SetSearch); !ok {
		s.persist()
	}
	return s.snapshot(), nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Get returns the property with id.
func (s *Store) Get(id string) (models.Property, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexOf(s.state.Properties, id); i >= 0 {
		return s.state.Properties[i], true
	}
	return models.Property{}, false
}

// Visible returns the properties matching the current query.
func (s *Store) Visible(mode MatchMode) []models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter(s.state.Properties, s.state.Query, mode)
}

func (s *Store) snapshot() State {
	return State{
		Properties: append([]models.Property{}, s.state.Properties...),
		Query:      s.state.Query,
	}
}

// nextID mints a millisecond timestamp id, bumped past the last one issued.
func (s *Store) nextID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Store) persist() {
	raw, err := EncodeProperties(s.state.Properties)
	if err == nil {
		err = s.storage.SetItem(StorageKey, raw)
	}
	if err != nil {
		s.logger.Error("Failed to persist properties", "key", StorageKey, "error", err)
	}
}
