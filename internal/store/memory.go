package store

// memory.go is the in-memory Store and AuditLog. It backs the service when
// no database is configured (offline-first mode, usually paired with the
// file override layer) and serves as the test double for the import
// pipeline.

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/brightbay/salestrack/internal/domain"
)

// Memory is a mutex-guarded map store. All returned records are copies;
// callers never share memory with the store.
type Memory struct {
	mu           sync.RWMutex
	developments map[string]domain.Development
	units        map[string]map[string]domain.Unit // developmentID -> unitNumber -> unit
	schemes      map[string]domain.IncentiveScheme
	audit        []domain.AuditEntry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		developments: make(map[string]domain.Development),
		units:        make(map[string]map[string]domain.Unit),
		schemes:      make(map[string]domain.IncentiveScheme),
	}
}

func (m *Memory) CreateDevelopment(ctx context.Context, dev *domain.Development) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.developments[dev.ID] = *dev
	if m.units[dev.ID] == nil {
		m.units[dev.ID] = make(map[string]domain.Unit)
	}
	return nil
}

func (m *Memory) GetDevelopment(ctx context.Context, id string) (*domain.Development, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dev, ok := m.developments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &dev, nil
}

func (m *Memory) GetDevelopmentByName(ctx context.Context, name string) (*domain.Development, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, dev := range m.developments {
		if strings.EqualFold(dev.Name, name) {
			d := dev
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) ListDevelopments(ctx context.Context) ([]domain.Development, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	devs := make([]domain.Development, 0, len(m.developments))
	for _, dev := range m.developments {
		devs = append(devs, dev)
	}
	sort.Slice(devs, func(i, j int) bool { return devs[i].Name < devs[j].Name })
	return devs, nil
}

func (m *Memory) GetUnit(ctx context.Context, developmentID, unitNumber string) (*domain.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	unit, ok := m.units[developmentID][unitNumber]
	if !ok {
		return nil, ErrNotFound
	}
	return &unit, nil
}

func (m *Memory) UpsertUnit(ctx context.Context, developmentID string, unit *domain.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.developments[developmentID]; !ok {
		return ErrNotFound
	}
	if m.units[developmentID] == nil {
		m.units[developmentID] = make(map[string]domain.Unit)
	}
	m.units[developmentID][unit.UnitNumber] = *unit
	return nil
}

// DeleteUnit removes a unit. Used in tests to simulate records disappearing
// between analysis and commit; the import path itself never deletes.
func (m *Memory) DeleteUnit(ctx context.Context, developmentID, unitNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	units, ok := m.units[developmentID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := units[unitNumber]; !ok {
		return ErrNotFound
	}
	delete(units, unitNumber)
	return nil
}

func (m *Memory) ListUnits(ctx context.Context, developmentID string) ([]domain.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	unitsByNo, ok := m.units[developmentID]
	if !ok {
		return nil, ErrNotFound
	}
	units := make([]domain.Unit, 0, len(unitsByNo))
	for _, u := range unitsByNo {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].UnitNumber < units[j].UnitNumber })
	return units, nil
}

func (m *Memory) GetScheme(ctx context.Context, id string) (*domain.IncentiveScheme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scheme, ok := m.schemes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &scheme, nil
}

func (m *Memory) UpsertScheme(ctx context.Context, scheme *domain.IncentiveScheme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemes[scheme.ID] = *scheme
	return nil
}

func (m *Memory) DeleteScheme(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schemes[id]; !ok {
		return ErrNotFound
	}
	delete(m.schemes, id)
	return nil
}

func (m *Memory) ListSchemes(ctx context.Context) ([]domain.IncentiveScheme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	schemes := make([]domain.IncentiveScheme, 0, len(m.schemes))
	for _, s := range m.schemes {
		schemes = append(schemes, s)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i].Name < schemes[j].Name })
	return schemes, nil
}

func (m *Memory) Append(ctx context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, *entry)
	return nil
}

func (m *Memory) List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []domain.AuditEntry
	for _, e := range m.audit {
		if !matchesFilter(e, filter) {
			continue
		}
		entries = append(entries, e)
	}

	// Newest first, matching the primary store's ordering.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	offset := filter.Offset
	if offset > len(entries) {
		offset = len(entries)
	}
	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[offset:end], nil
}

func matchesFilter(e domain.AuditEntry, f AuditFilter) bool {
	if f.DevelopmentID != "" && e.DevelopmentID != f.DevelopmentID {
		return false
	}
	if f.UnitNumber != "" && e.UnitNumber != f.UnitNumber {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if !f.Start.IsZero() && e.CreatedAt.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && e.CreatedAt.After(f.End) {
		return false
	}
	return true
}

var _ Store = (*Memory)(nil)
var _ AuditLog = (*Memory)(nil)
