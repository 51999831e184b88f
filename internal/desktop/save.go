package desktop

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	saveObject   = "plinko"
	saveProperty = "table"
)

// Save is what the desktop client keeps between runs.
type Save struct {
	Score   float64 `yaml:"score"`
	Wager   float64 `yaml:"wager"`
	Count   int     `yaml:"count"`
	Drops   int     `yaml:"drops"`
	BestWin float64 `yaml:"best_win"`
}

// propStore is the part of gdata.Manager the save store needs.
type propStore interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// SaveStore reads and writes the Save as YAML. With no backing store it
// runs in memory only and never fails.
type SaveStore struct {
	store propStore
}

// NewSaveStore wraps a gdata manager; nil gives an in-memory store.
func NewSaveStore(m *gdata.Manager) *SaveStore {
	if m == nil {
		return &SaveStore{}
	}
	return &SaveStore{store: m}
}

// Load returns the saved table, or ok == false when nothing was saved yet.
func (s *SaveStore) Load() (Save, bool, error) {
	if s == nil || s.store == nil || !s.store.ObjectPropExists(saveObject, saveProperty) {
		return Save{}, false, nil
	}
	data, err := s.store.LoadObjectProp(saveObject, saveProperty)
	if err != nil {
		return Save{}, false, fmt.Errorf("failed to load save: %w", err)
	}
	var v Save
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Save{}, false, fmt.Errorf("failed to unmarshal save: %w", err)
	}
	return v, true, nil
}

// Store writes v.
func (s *SaveStore) Store(v Save) error {
	if s == nil || s.store == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}
	if err := s.store.SaveObjectProp(saveObject, saveProperty, data); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	log.Printf("[DESKTOP] saved score %.2f", v.Score)
	return nil
}
