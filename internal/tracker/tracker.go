// Package tracker owns a single session's meal log and profile.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/macrolog/internal/mealparse"
	"github.com/dukerupert/macrolog/internal/model"
	"github.com/dukerupert/macrolog/internal/plan"
)

// ErrEmptyInput is returned by Add for a blank meal description.
var ErrEmptyInput = errors.New("meal input is empty")

// Store persists the log and profile. Load methods return nil when nothing
// has been saved yet.
type Store interface {
	LoadLog() ([]model.MealEntry, error)
	SaveLog(entries []model.MealEntry) error
	LoadProfile() (*model.Profile, error)
	SaveProfile(p model.Profile) error
}

// Notifier is told about every change after it has been applied.
type Notifier func(entity, action, id string)

// Tracker holds the meal log, newest first, and the profile.
type Tracker struct {
	mu      sync.RWMutex
	entries []model.MealEntry
	profile model.Profile

	// saveMu is held from a mutation through its store write so snapshots
	// reach the store in the order they were taken.
	saveMu sync.Mutex

	parser *mealparse.Parser
	store  Store
	logger *slog.Logger
	notify Notifier
	now    func() time.Time
	newID  func() string
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDFunc(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notify = n }
}

// New creates a Tracker with the default profile and an empty log. A nil
// store keeps everything in memory.
func New(parser *mealparse.Parser, store Store, logger *slog.Logger, opts ...Option) *Tracker {
	if parser == nil {
		parser = mealparse.NewParser(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{
		profile: model.DefaultProfile(),
		parser:  parser,
		store:   store,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load reads the log and profile from the store. Failures are logged and
// leave the in-memory state as it was.
func (t *Tracker) Load() {
	if t.store == nil {
		return
	}

	entries, err := t.store.LoadLog()
	if err != nil {
		t.logger.Warn("load meal log", "error", err)
	} else if entries != nil {
		t.mu.Lock()
		t.entries = entries
		t.mu.Unlock()
	}

	p, err := t.store.LoadProfile()
	if err != nil {
		t.logger.Warn("load profile", "error", err)
	} else if p != nil {
		t.mu.Lock()
		t.profile = *p
		t.mu.Unlock()
	}

	t.mu.RLock()
	t.logger.Info("tracker loaded", "entries", len(t.entries), "gender", t.profile.Gender)
	t.mu.RUnlock()
}

// Parse runs the meal pipeline without logging anything.
func (t *Tracker) Parse(input string) ([]model.ParsedItem, model.Macro) {
	items := t.parser.ParseMeal(input)
	return items, mealparse.SumItems(items)
}

// Add parses input and prepends the resulting entry to the log.
func (t *Tracker) Add(input string) (model.MealEntry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return model.MealEntry{}, ErrEmptyInput
	}

	items, totals := t.Parse(input)
	entry := model.MealEntry{
		ID:        t.newID(),
		Timestamp: t.now().UTC(),
		Input:     input,
		Items:     items,
		Totals:    totals,
	}

	t.saveMu.Lock()
	t.mu.Lock()
	t.entries = append([]model.MealEntry{entry}, t.entries...)
	snapshot := t.copyEntries()
	t.mu.Unlock()
	t.saveLog(snapshot)
	t.saveMu.Unlock()

	t.logger.Debug("meal logged", "id", entry.ID, "items", len(items), "calories", totals.Calories)
	t.emit("meal_entry", "created", entry.ID)
	return entry, nil
}

// Remove deletes the entry with id. It reports whether one was found.
func (t *Tracker) Remove(id string) bool {
	t.saveMu.Lock()
	defer t.saveMu.Unlock()

	t.mu.Lock()
	idx := -1
	for i, e := range t.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	t.entries = append(t.entries[:idx:idx], t.entries[idx+1:]...)
	snapshot := t.copyEntries()
	t.mu.Unlock()

	t.saveLog(snapshot)
	t.emit("meal_entry", "deleted", id)
	return true
}

// Entries returns the log, newest first.
func (t *Tracker) Entries() []model.MealEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.copyEntries()
}

// Entry returns the entry with id, or nil.
func (t *Tracker) Entry(id string) *model.MealEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.ID == id {
			e := e
			return &e
		}
	}
	return nil
}

func (t *Tracker) Profile() model.Profile {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.profile
}

// SetProfile replaces the profile wholesale.
func (t *Tracker) SetProfile(p model.Profile) {
	t.saveMu.Lock()
	t.mu.Lock()
	t.profile = p
	t.mu.Unlock()
	t.saveProfile(p)
	t.saveMu.Unlock()

	t.emit("profile", "updated", "")
}

// Plan computes the plan for the current profile.
func (t *Tracker) Plan() model.Plan {
	return plan.ComputeAt(t.Profile(), t.now())
}

type snapshot struct {
	Log     []model.MealEntry `json:"log"`
	Profile model.Profile     `json:"profile"`
}

// Export encodes the log and profile as JSON.
func (t *Tracker) Export() ([]byte, error) {
	t.mu.RLock()
	s := snapshot{Log: t.copyEntries(), Profile: t.profile}
	t.mu.RUnlock()

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Import replaces the log and profile with a snapshot produced by Export.
// Profile fields missing from the snapshot keep their default values.
func (t *Tracker) Import(data []byte) error {
	s := snapshot{Profile: model.DefaultProfile()}
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}

	t.saveMu.Lock()
	t.mu.Lock()
	t.entries = s.Log
	t.profile = s.Profile
	entries := t.copyEntries()
	t.mu.Unlock()
	t.saveLog(entries)
	t.saveProfile(s.Profile)
	t.saveMu.Unlock()

	t.emit("log", "restored", "")
	return nil
}

func (t *Tracker) copyEntries() []model.MealEntry {
	out := make([]model.MealEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Tracker) saveLog(entries []model.MealEntry) {
	if t.store == nil {
		return
	}
	if err := t.store.SaveLog(entries); err != nil {
		t.logger.Warn("save meal log", "error", err)
	}
}

func (t *Tracker) saveProfile(p model.Profile) {
	if t.store == nil {
		return
	}
	if err := t.store.SaveProfile(p); err != nil {
		t.logger.Warn("save profile", "error", err)
	}
}

func (t *Tracker) emit(entity, action, id string) {
	if t.notify != nil {
		t.notify(entity, action, id)
	}
}
