package store

import (
	"encoding/json"
	"fmt"

	"github.com/dukerupert/macrolog/internal/model"
)

// JournalStore keeps the meal log and profile as JSON documents in a
// KVStore, one key each, scoped by a namespace.
type JournalStore struct {
	kv        *KVStore
	namespace string
}

func NewJournalStore(kv *KVStore, namespace string) *JournalStore {
	return &JournalStore{kv: kv, namespace: namespace}
}

func (s *JournalStore) LogKey() string     { return s.namespace + "_log" }
func (s *JournalStore) ProfileKey() string { return s.namespace + "_profile" }

// LoadLog returns nil when no log has been saved.
func (s *JournalStore) LoadLog() ([]model.MealEntry, error) {
	raw, ok, err := s.kv.Get(s.LogKey())
	if err != nil || !ok {
		return nil, err
	}
	var entries []model.MealEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode meal log: %w", err)
	}
	if entries == nil {
		entries = []model.MealEntry{}
	}
	return entries, nil
}

func (s *JournalStore) SaveLog(entries []model.MealEntry) error {
	if entries == nil {
		entries = []model.MealEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode meal log: %w", err)
	}
	return s.kv.Set(s.LogKey(), string(data))
}

// LoadProfile returns nil when no profile has been saved. Stored fields are
// laid over DefaultProfile so older documents missing a field still load.
func (s *JournalStore) LoadProfile() (*model.Profile, error) {
	raw, ok, err := s.kv.Get(s.ProfileKey())
	if err != nil || !ok {
		return nil, err
	}
	p := model.DefaultProfile()
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (s *JournalStore) SaveProfile(p model.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.kv.Set(s.ProfileKey(), string(data))
}
