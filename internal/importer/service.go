package importer

import (
	"time"

	"github.com/brightbay/salestrack/internal/store"
)

// PriceWarningThreshold is the fractional price change above which a
// non-fatal warning is attached to the row. Changes beyond the threshold are
// still applied.
var PriceWarningThreshold = 0.20

// Service runs import analysis and commit against the configured store and
// audit log.
type Service struct {
	store   store.Store
	audit   store.AuditLog
	limiter *ImportLimiter
}

// NewService creates an import service. maxConcurrent bounds parallel import
// requests service-wide; maxWait is how long a request waits for a slot.
func NewService(st store.Store, audit store.AuditLog, maxConcurrent int, maxWait time.Duration) *Service {
	return &Service{
		store:   st,
		audit:   audit,
		limiter: NewImportLimiter(maxConcurrent, maxWait),
	}
}

// Limiter exposes the import limiter for shutdown draining.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}
