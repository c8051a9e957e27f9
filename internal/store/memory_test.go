package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightbay/salestrack/internal/domain"
)

func seedMemory(t *testing.T) (*Memory, *domain.Development) {
	t.Helper()
	m := NewMemory()
	dev := &domain.Development{ID: "dev-1", Name: "Oakfield Park"}
	if err := m.CreateDevelopment(context.Background(), dev); err != nil {
		t.Fatalf("CreateDevelopment: %v", err)
	}
	return m, dev
}

func TestMemory_DevelopmentLookup(t *testing.T) {
	m, dev := seedMemory(t)
	ctx := context.Background()

	got, err := m.GetDevelopment(ctx, dev.ID)
	if err != nil {
		t.Fatalf("GetDevelopment: %v", err)
	}
	if got.Name != "Oakfield Park" {
		t.Errorf("Name = %q", got.Name)
	}

	if _, err := m.GetDevelopment(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing development error = %v, want ErrNotFound", err)
	}
}

func TestMemory_GetDevelopmentByName_CaseInsensitive(t *testing.T) {
	m, _ := seedMemory(t)
	ctx := context.Background()

	for _, name := range []string{"Oakfield Park", "oakfield park", "OAKFIELD PARK"} {
		got, err := m.GetDevelopmentByName(ctx, name)
		if err != nil {
			t.Errorf("GetDevelopmentByName(%q): %v", name, err)
			continue
		}
		if got.ID != "dev-1" {
			t.Errorf("GetDevelopmentByName(%q).ID = %q", name, got.ID)
		}
	}

	if _, err := m.GetDevelopmentByName(ctx, "Elm Grove"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown name error = %v, want ErrNotFound", err)
	}
}

func TestMemory_UnitCopySemantics(t *testing.T) {
	m, dev := seedMemory(t)
	ctx := context.Background()

	unit := &domain.Unit{UnitNumber: "A-101", Type: "Apartment"}
	if err := m.UpsertUnit(ctx, dev.ID, unit); err != nil {
		t.Fatalf("UpsertUnit: %v", err)
	}

	// Mutating the fetched copy must not leak back into the store
	got, err := m.GetUnit(ctx, dev.ID, "A-101")
	if err != nil {
		t.Fatalf("GetUnit: %v", err)
	}
	got.Type = "Duplex"

	again, _ := m.GetUnit(ctx, dev.ID, "A-101")
	if again.Type != "Apartment" {
		t.Errorf("store mutated through returned copy: %q", again.Type)
	}
}

func TestMemory_UpsertUnit_UnknownDevelopment(t *testing.T) {
	m := NewMemory()
	err := m.UpsertUnit(context.Background(), "ghost", &domain.Unit{UnitNumber: "A-101"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMemory_ListUnits_Sorted(t *testing.T) {
	m, dev := seedMemory(t)
	ctx := context.Background()

	for _, no := range []string{"B-201", "A-101", "A-102"} {
		if err := m.UpsertUnit(ctx, dev.ID, &domain.Unit{UnitNumber: no}); err != nil {
			t.Fatalf("UpsertUnit(%s): %v", no, err)
		}
	}

	units, err := m.ListUnits(ctx, dev.ID)
	if err != nil {
		t.Fatalf("ListUnits: %v", err)
	}
	want := []string{"A-101", "A-102", "B-201"}
	for i, no := range want {
		if units[i].UnitNumber != no {
			t.Errorf("units[%d] = %q, want %q", i, units[i].UnitNumber, no)
		}
	}
}

func TestMemory_SchemeLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	scheme := &domain.IncentiveScheme{ID: "s-1", Name: "Help to Buy", Active: true}
	if err := m.UpsertScheme(ctx, scheme); err != nil {
		t.Fatalf("UpsertScheme: %v", err)
	}

	got, err := m.GetScheme(ctx, "s-1")
	if err != nil || got.Name != "Help to Buy" {
		t.Fatalf("GetScheme = %+v, %v", got, err)
	}

	if err := m.DeleteScheme(ctx, "s-1"); err != nil {
		t.Fatalf("DeleteScheme: %v", err)
	}
	if _, err := m.GetScheme(ctx, "s-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted scheme error = %v, want ErrNotFound", err)
	}
	if err := m.DeleteScheme(ctx, "s-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete error = %v, want ErrNotFound", err)
	}
}

func TestMemory_AuditListFilters(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	entries := []domain.AuditEntry{
		{ID: "1", Action: domain.ActionImport, DevelopmentID: "dev-1", UnitNumber: "A-101", CreatedAt: base},
		{ID: "2", Action: domain.ActionUnitEdit, DevelopmentID: "dev-1", UnitNumber: "A-102", CreatedAt: base.Add(time.Hour)},
		{ID: "3", Action: domain.ActionImport, DevelopmentID: "dev-2", UnitNumber: "A-101", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range entries {
		if err := m.Append(ctx, &entries[i]); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// Unfiltered: newest first
	got, err := m.List(ctx, AuditFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 || got[0].ID != "3" || got[2].ID != "1" {
		t.Errorf("ordering = %v", ids(got))
	}

	// By development
	got, _ = m.List(ctx, AuditFilter{DevelopmentID: "dev-1"})
	if len(got) != 2 {
		t.Errorf("dev filter = %v", ids(got))
	}

	// By action
	got, _ = m.List(ctx, AuditFilter{Action: domain.ActionUnitEdit})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("action filter = %v", ids(got))
	}

	// By time window
	got, _ = m.List(ctx, AuditFilter{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("time filter = %v", ids(got))
	}

	// Limit and offset
	got, _ = m.List(ctx, AuditFilter{Limit: 1, Offset: 1})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("pagination = %v", ids(got))
	}
}

func ids(entries []domain.AuditEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
