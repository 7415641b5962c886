package savegame

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

// ItemStore is the key/value storage behind Slots.
type ItemStore interface {
	SaveItem(key string, data []byte) error
	LoadItem(key string) ([]byte, error)
}

// Slots stores named save games.
type Slots struct {
	store ItemStore
}

// OpenSlots opens the per-user data directory for app.
func OpenSlots(app string) (*Slots, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: app,
	})
	if err != nil {
		return nil, fmt.Errorf("savegame: open storage: %w", err)
	}
	return &Slots{store: m}, nil
}

// NewSlots wraps an existing store.
func NewSlots(store ItemStore) *Slots {
	return &Slots{store: store}
}

func slotKey(name string) string {
	return "slot_" + name
}

func (s *Slots) Save(name string, data []byte) error {
	if err := s.store.SaveItem(slotKey(name), data); err != nil {
		return fmt.Errorf("savegame: save %s: %w", name, err)
	}
	log.Printf("[save] wrote slot %s (%d bytes)", name, len(data))
	return nil
}

// Load returns the slot contents, or nil when the slot is empty.
func (s *Slots) Load(name string) ([]byte, error) {
	data, err := s.store.LoadItem(slotKey(name))
	if err != nil {
		return nil, fmt.Errorf("savegame: load %s: %w", name, err)
	}
	return data, nil
}
