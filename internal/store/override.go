package store

// override.go is the durable side-store: a JSON file of unit overrides keyed
// by "developmentID|unitNumber". It exists so that applied imports survive
// process restarts independently of the primary database. The WriteThrough
// wrapper keeps it behind the same Store interface, replacing the two
// parallel update paths of the original design with one.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/brightbay/salestrack/internal/domain"
)

// Override is a file-backed unit override map. Writes are atomic
// (temp file + rename) so a crash mid-write never corrupts the file.
type Override struct {
	path string

	mu    sync.Mutex
	units map[string]domain.Unit
}

// OpenOverride loads the override file at path, creating the parent
// directory if needed. A missing file is an empty override set, not an
// error.
func OpenOverride(path string) (*Override, error) {
	o := &Override{path: path, units: make(map[string]domain.Unit)}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create override dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return o, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read override file: %w", err)
	}
	if len(data) == 0 {
		return o, nil
	}
	if err := json.Unmarshal(data, &o.units); err != nil {
		return nil, fmt.Errorf("parse override file %s: %w", path, err)
	}
	return o, nil
}

// Put records an override for the unit and flushes the file.
func (o *Override) Put(developmentID string, unit *domain.Unit) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.units[overrideKey(developmentID, unit.UnitNumber)] = *unit
	return o.flushLocked()
}

// Get returns the override for a unit, if one exists.
func (o *Override) Get(developmentID, unitNumber string) (*domain.Unit, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	unit, ok := o.units[overrideKey(developmentID, unitNumber)]
	if !ok {
		return nil, false
	}
	return &unit, true
}

// Len returns the number of stored overrides.
func (o *Override) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.units)
}

func (o *Override) flushLocked() error {
	data, err := json.MarshalIndent(o.units, "", "  ")
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}

	tmp := o.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write override temp file: %w", err)
	}
	if err := os.Rename(tmp, o.path); err != nil {
		return fmt.Errorf("replace override file: %w", err)
	}
	return nil
}

func overrideKey(developmentID, unitNumber string) string {
	return developmentID + "|" + unitNumber
}

// WriteThrough wraps a Store so that every unit upsert is also recorded in
// the override side-store.
type WriteThrough struct {
	Store
	override *Override
}

// NewWriteThrough layers the override store over primary.
func NewWriteThrough(primary Store, override *Override) *WriteThrough {
	return &WriteThrough{Store: primary, override: override}
}

func (w *WriteThrough) UpsertUnit(ctx context.Context, developmentID string, unit *domain.Unit) error {
	if err := w.Store.UpsertUnit(ctx, developmentID, unit); err != nil {
		return err
	}
	return w.override.Put(developmentID, unit)
}

var _ Store = (*WriteThrough)(nil)
