// Package store provides the persistence layer: a repository interface over
// developments, units, and incentive schemes, an append-only audit log, and
// three implementations: Postgres, in-memory, and a file-backed
// write-through override layer.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/brightbay/salestrack/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the repository interface for all tracked records. Unit identity
// is the (developmentID, unitNumber) pair; unit numbers are unique within a
// development only.
type Store interface {
	CreateDevelopment(ctx context.Context, dev *domain.Development) error
	GetDevelopment(ctx context.Context, id string) (*domain.Development, error)
	GetDevelopmentByName(ctx context.Context, name string) (*domain.Development, error)
	ListDevelopments(ctx context.Context) ([]domain.Development, error)

	GetUnit(ctx context.Context, developmentID, unitNumber string) (*domain.Unit, error)
	UpsertUnit(ctx context.Context, developmentID string, unit *domain.Unit) error
	ListUnits(ctx context.Context, developmentID string) ([]domain.Unit, error)

	GetScheme(ctx context.Context, id string) (*domain.IncentiveScheme, error)
	UpsertScheme(ctx context.Context, scheme *domain.IncentiveScheme) error
	DeleteScheme(ctx context.Context, id string) error
	ListSchemes(ctx context.Context) ([]domain.IncentiveScheme, error)
}

// AuditLog records mutations. Entries are append-only.
type AuditLog interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error)
}

// AuditFilter narrows audit log queries. Zero values mean "no constraint".
type AuditFilter struct {
	DevelopmentID string
	UnitNumber    string
	Action        domain.AuditAction
	Start         time.Time
	End           time.Time
	Limit         int
	Offset        int
}

// DefaultAuditLimit caps audit queries that do not specify a limit.
const DefaultAuditLimit = 100
