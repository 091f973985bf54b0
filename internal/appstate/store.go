// Package appstate persists the user-owned companion documents: the task
// checklist, saved builds, the mastery inventory and preferences.
package appstate

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tennoware/companion/internal/models"
	"github.com/tennoware/companion/internal/storage"
)

// BlobStore is the durable key/blob surface appstate writes through.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// ErrNotFound is returned when an operation targets an id that is not in the
// document.
var ErrNotFound = fmt.Errorf("not found")

// Store manages the persisted app documents. Each document is loaded, edited
// and written back wholesale.
type Store struct {
	blobs BlobStore
	log   logrus.FieldLogger
	newID func() string
}

// New builds an app state store.
func New(blobs BlobStore, log logrus.FieldLogger) *Store {
	return &Store{
		blobs: blobs,
		log:   log,
		newID: func() string { return uuid.NewString() },
	}
}

// Tasks returns the checklist, empty when none has been saved. A corrupt
// document is treated as empty rather than wedging the checklist.
func (s *Store) Tasks() []models.Task {
	var tasks []models.Task
	s.load(storage.KeyTasks, &tasks)
	return tasks
}

// AddTask appends a checklist entry and returns it with its assigned id.
func (s *Store) AddTask(task models.Task) (models.Task, error) {
	if task.Title == "" {
		return models.Task{}, fmt.Errorf("task title is required")
	}
	if task.Category == "" {
		task.Category = models.TaskDaily
	}
	task.ID = s.newID()

	tasks := append(s.Tasks(), task)
	if err := s.save(storage.KeyTasks, tasks); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// ToggleTask flips the completion flag of one entry.
func (s *Store) ToggleTask(id string) error {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = !tasks[i].Completed
			return s.save(storage.KeyTasks, tasks)
		}
	}
	return fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// DeleteTask removes one entry.
func (s *Store) DeleteTask(id string) error {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return s.save(storage.KeyTasks, tasks)
		}
	}
	return fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// ResetDaily unchecks every daily entry at rollover. Weekly entries keep
// their state.
func (s *Store) ResetDaily() error {
	tasks := s.Tasks()
	changed := false
	for i := range tasks {
		if tasks[i].Category == models.TaskDaily && tasks[i].Completed {
			tasks[i].Completed = false
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(storage.KeyTasks, tasks)
}

// Builds returns the saved loadouts.
func (s *Store) Builds() []models.Build {
	var builds []models.Build
	s.load(storage.KeyBuilds, &builds)
	return builds
}

// AddBuild saves a loadout and returns it with its assigned id.
func (s *Store) AddBuild(build models.Build) (models.Build, error) {
	if build.Name == "" {
		return models.Build{}, fmt.Errorf("build name is required")
	}
	build.ID = s.newID()

	builds := append(s.Builds(), build)
	if err := s.save(storage.KeyBuilds, builds); err != nil {
		return models.Build{}, err
	}
	return build, nil
}

// UpdateBuild replaces a saved loadout, keeping its id.
func (s *Store) UpdateBuild(build models.Build) error {
	builds := s.Builds()
	for i := range builds {
		if builds[i].ID == build.ID {
			builds[i] = build
			return s.save(storage.KeyBuilds, builds)
		}
	}
	return fmt.Errorf("build %s: %w", build.ID, ErrNotFound)
}

// DeleteBuild removes a saved loadout.
func (s *Store) DeleteBuild(id string) error {
	builds := s.Builds()
	for i := range builds {
		if builds[i].ID == id {
			builds = append(builds[:i], builds[i+1:]...)
			return s.save(storage.KeyBuilds, builds)
		}
	}
	return fmt.Errorf("build %s: %w", id, ErrNotFound)
}

// Rivens returns the tracked riven mods.
func (s *Store) Rivens() []models.Riven {
	var rivens []models.Riven
	s.load(storage.KeyRivens, &rivens)
	return rivens
}

// AddRiven tracks a riven mod and returns it with its assigned id.
func (s *Store) AddRiven(riven models.Riven) (models.Riven, error) {
	if riven.Weapon == "" {
		return models.Riven{}, fmt.Errorf("riven weapon is required")
	}
	riven.ID = s.newID()

	rivens := append(s.Rivens(), riven)
	if err := s.save(storage.KeyRivens, rivens); err != nil {
		return models.Riven{}, err
	}
	return riven, nil
}

// UpdateRiven replaces a tracked riven, keeping its id.
func (s *Store) UpdateRiven(riven models.Riven) error {
	rivens := s.Rivens()
	for i := range rivens {
		if rivens[i].ID == riven.ID {
			rivens[i] = riven
			return s.save(storage.KeyRivens, rivens)
		}
	}
	return fmt.Errorf("riven %s: %w", riven.ID, ErrNotFound)
}

// DeleteRiven stops tracking a riven.
func (s *Store) DeleteRiven(id string) error {
	rivens := s.Rivens()
	for i := range rivens {
		if rivens[i].ID == id {
			rivens = append(rivens[:i], rivens[i+1:]...)
			return s.save(storage.KeyRivens, rivens)
		}
	}
	return fmt.Errorf("riven %s: %w", id, ErrNotFound)
}

// Inventory returns the tracked equipment list.
func (s *Store) Inventory() []models.InventoryItem {
	var items []models.InventoryItem
	s.load(storage.KeyInventory, &items)
	return items
}

// AddItem tracks a new piece of equipment and returns it with its assigned
// id.
func (s *Store) AddItem(item models.InventoryItem) (models.InventoryItem, error) {
	if item.Name == "" {
		return models.InventoryItem{}, fmt.Errorf("item name is required")
	}
	item.ID = s.newID()

	items := append(s.Inventory(), item)
	if err := s.save(storage.KeyInventory, items); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// UpdateItem replaces a tracked item, keeping its id.
func (s *Store) UpdateItem(item models.InventoryItem) error {
	items := s.Inventory()
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return s.save(storage.KeyInventory, items)
		}
	}
	return fmt.Errorf("item %s: %w", item.ID, ErrNotFound)
}

// DeleteItem stops tracking an item.
func (s *Store) DeleteItem(id string) error {
	items := s.Inventory()
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.save(storage.KeyInventory, items)
		}
	}
	return fmt.Errorf("item %s: %w", id, ErrNotFound)
}

// Settings returns the persisted preferences, falling back to defaults when
// nothing has been saved or the saved document is corrupt.
func (s *Store) Settings() models.Settings {
	settings := models.DefaultSettings()
	raw, err := s.blobs.Get(storage.KeySettings)
	if err != nil || raw == nil {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.WithError(err).Warn("discarding corrupt settings document")
		return models.DefaultSettings()
	}
	return settings
}

// SaveSettings replaces the persisted preferences.
func (s *Store) SaveSettings(settings models.Settings) error {
	return s.save(storage.KeySettings, settings)
}

func (s *Store) load(key string, out any) {
	raw, err := s.blobs.Get(key)
	if err != nil || raw == nil {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("discarding corrupt document")
	}
}

func (s *Store) save(key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.blobs.Put(key, raw); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
