package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brightbay/salestrack/internal/domain"
)

func TestOpenOverride_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "overrides.json")
	o, err := OpenOverride(path)
	if err != nil {
		t.Fatalf("OpenOverride: %v", err)
	}
	if o.Len() != 0 {
		t.Errorf("Len = %d, want 0", o.Len())
	}
}

func TestOpenOverride_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenOverride(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestOverride_PersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")

	o, err := OpenOverride(path)
	if err != nil {
		t.Fatalf("OpenOverride: %v", err)
	}
	unit := &domain.Unit{UnitNumber: "A-101", Type: "Apartment", SalesStatus: "Under Offer"}
	if err := o.Put("dev-1", unit); err != nil {
		t.Fatalf("Put: %v", err)
	}

	reopened, err := OpenOverride(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Get("dev-1", "A-101")
	if !ok {
		t.Fatal("unit not found after reopen")
	}
	if got.SalesStatus != "Under Offer" {
		t.Errorf("SalesStatus = %q", got.SalesStatus)
	}
	if _, ok := reopened.Get("dev-2", "A-101"); ok {
		t.Error("key leaked across developments")
	}
}

func TestWriteThrough_MirrorsUpserts(t *testing.T) {
	ctx := context.Background()
	mem, dev := seedMemory(t)

	o, err := OpenOverride(filepath.Join(t.TempDir(), "overrides.json"))
	if err != nil {
		t.Fatalf("OpenOverride: %v", err)
	}
	wt := NewWriteThrough(mem, o)

	unit := &domain.Unit{UnitNumber: "A-101", Type: "Duplex"}
	if err := wt.UpsertUnit(ctx, dev.ID, unit); err != nil {
		t.Fatalf("UpsertUnit: %v", err)
	}

	if _, err := mem.GetUnit(ctx, dev.ID, "A-101"); err != nil {
		t.Errorf("primary store missing unit: %v", err)
	}
	if _, ok := o.Get(dev.ID, "A-101"); !ok {
		t.Error("override store missing unit")
	}
}

func TestWriteThrough_PrimaryErrorSkipsOverride(t *testing.T) {
	o, err := OpenOverride(filepath.Join(t.TempDir(), "overrides.json"))
	if err != nil {
		t.Fatalf("OpenOverride: %v", err)
	}
	wt := NewWriteThrough(NewMemory(), o)

	err = wt.UpsertUnit(context.Background(), "ghost", &domain.Unit{UnitNumber: "A-101"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if o.Len() != 0 {
		t.Errorf("override recorded failed upsert, Len = %d", o.Len())
	}
}
