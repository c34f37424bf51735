// Package todo keeps the todo list in memory and mirrors every mutation to a
// store.KV under a single key.
package todo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/pocket/internal/logging"
	"github.com/idilsaglam/pocket/internal/model"
	"github.com/idilsaglam/pocket/internal/store"
)

// StorageKey is the key the serialized list lives under.
const StorageKey = "todos"

// Store owns the list. It is not safe for concurrent use; callers run one
// action at a time.
type Store struct {
	kv    store.KV
	log   *slog.Logger
	newID func() string
	items []model.Item
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDFunc replaces the id generator.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// New returns an empty Store. Call Load to read the persisted list.
func New(kv store.KV, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		log:   logging.Discard(),
		newID: NewID,
		items: []model.Item{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a base-36 millisecond timestamp followed by a random suffix.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + suffix
}

// Load replaces the in-memory list with the persisted one. A missing,
// unreadable or corrupt value yields an empty list; failures are logged,
// never returned.
func (s *Store) Load() {
	s.items = []model.Item{}

	raw, ok, err := s.kv.Get(StorageKey)
	if err != nil {
		s.log.Error("failed to read todos", slog.String("operation", "Load"), slog.Any("error", err))
		return
	}
	if !ok || raw == "" {
		return
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Error("failed to parse todos from storage", slog.String("operation", "Load"), slog.Any("error", err))
		return
	}
	if items != nil {
		s.items = items
	}
}

// Save writes the full list.
func (s *Store) Save() error {
	b, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.kv.Set(StorageKey, string(b)); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

// Add appends a new open item and persists. The item is returned even when
// persisting fails.
func (s *Store) Add(text string) (model.Item, error) {
	it := model.Item{ID: s.newID(), Text: text}
	s.items = append(s.items, it)
	return it, s.Save()
}

// Delete removes the item with id. Unknown ids leave the list as is.
func (s *Store) Delete(id string) error {
	s.items = slices.DeleteFunc(s.items, func(it model.Item) bool { return it.ID == id })
	return s.Save()
}

// Toggle flips the completed flag of the item with id, if there is one.
func (s *Store) Toggle(id string) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.items[i].Completed = !s.items[i].Completed
	return s.Save()
}

// Get returns the item with id.
func (s *Store) Get(id string) (model.Item, bool) {
	i := s.index(id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// List returns a copy of the items in insertion order.
func (s *Store) List() []model.Item {
	return slices.Clone(s.items)
}

func (s *Store) Len() int { return len(s.items) }

// Stats counts completed and open items.
func (s *Store) Stats() (done, pending int) {
	for _, it := range s.items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}
