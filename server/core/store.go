package core

import (
	"encoding/json"
	"fmt"

	"github.com/quasilyte/gdata"
)

// Store persists the committed value of every toggle across restarts.
type Store interface {
	Load() (map[string]bool, error)
	Save(states map[string]bool) error
}

const stateItem = "toggles"

// GdataStore keeps toggle state in the platform's per-application data
// directory.
type GdataStore struct {
	m *gdata.Manager
}

func OpenGdataStore(appName string) (*GdataStore, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return &GdataStore{m: m}, nil
}

// Load returns nil, nil when nothing has been saved yet.
func (s *GdataStore) Load() (map[string]bool, error) {
	data, err := s.m.LoadItem(stateItem)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", stateItem, err)
	}
	if data == nil {
		return nil, nil
	}

	var states map[string]bool
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("parse %s: %w", stateItem, err)
	}
	return states, nil
}

func (s *GdataStore) Save(states map[string]bool) error {
	data, err := json.Marshal(states)
	if err != nil {
		return fmt.Errorf("encode %s: %w", stateItem, err)
	}
	if err := s.m.SaveItem(stateItem, data); err != nil {
		return fmt.Errorf("save %s: %w", stateItem, err)
	}
	return nil
}
