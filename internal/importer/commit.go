package importer

// commit.go applies accepted import rows to the store. Commits are
// deliberately not atomic across rows: each row targets a disjoint
// (development, unit number) key, failures are collected rather than
// raised, and the caller surfaces per-row results to the end user.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brightbay/salestrack/internal/domain"
	"github.com/brightbay/salestrack/internal/store"
	"github.com/google/uuid"
)

// ImportSource annotates audit entries written by the import path.
const ImportSource = "via import"

// Commit applies the given rows to the store and writes audit entries: one
// batch summary entry up front, then one per-unit entry listing the row's
// field changes. Each row's unit is looked up again at commit time; rows
// from a stale analysis fail individually instead of clobbering deleted
// records.
func (s *Service) Commit(ctx context.Context, rows []ImportRow, actor domain.Actor) CommitOutcome {
	outcome := CommitOutcome{BatchID: uuid.New().String()}

	// The batch summary entry is best-effort: a failed write is logged but
	// never blocks per-row application.
	err := s.audit.Append(ctx, &domain.AuditEntry{
		ID:           uuid.New().String(),
		Action:       domain.ActionImportSummary,
		Actor:        actor,
		RowsAffected: len(rows),
		BatchID:      outcome.BatchID,
		Source:       ImportSource,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		slog.Warn("import: batch summary audit write failed", "batch_id", outcome.BatchID, "error", err)
	}

	for _, row := range rows {
		if err := s.commitRow(ctx, row, actor, outcome.BatchID); err != nil {
			outcome.Failed++
			outcome.Failures = append(outcome.Failures,
				fmt.Sprintf("row %d (unit %s): %v", row.RowNumber, row.UnitNumber, err))
			continue
		}
		outcome.Applied++
	}

	return outcome
}

func (s *Service) commitRow(ctx context.Context, row ImportRow, actor domain.Actor, batchID string) error {
	// Re-resolve at commit time; the unit may have been removed since the
	// analysis pass.
	if _, err := s.store.GetUnit(ctx, row.DevelopmentID, row.UnitNumber); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unit no longer exists in development %s", row.DevelopmentID)
		}
		return fmt.Errorf("lookup unit: %w", err)
	}

	if err := s.store.UpsertUnit(ctx, row.DevelopmentID, &row.Updated); err != nil {
		return fmt.Errorf("persist unit: %w", err)
	}

	changes := make([]domain.FieldChange, len(row.Changes))
	for i, c := range row.Changes {
		changes[i] = domain.FieldChange{Field: c.Field, OldValue: c.OldValue, NewValue: c.NewValue}
	}

	// The per-unit audit entry is best-effort as well: the unit is already
	// persisted, so a failed entry is logged rather than counted as a row
	// failure.
	err := s.audit.Append(ctx, &domain.AuditEntry{
		ID:            uuid.New().String(),
		Action:        domain.ActionImport,
		Actor:         actor,
		DevelopmentID: row.DevelopmentID,
		UnitNumber:    row.UnitNumber,
		Changes:       changes,
		RowsAffected:  1,
		BatchID:       batchID,
		Source:        ImportSource,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		slog.Warn("import: unit audit write failed",
			"batch_id", batchID,
			"development_id", row.DevelopmentID,
			"unit_number", row.UnitNumber,
			"error", err,
		)
	}

	return nil
}
