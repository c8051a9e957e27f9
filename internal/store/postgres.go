package store

// postgres.go is the primary persistence layer. Units and incentive schemes
// are stored as JSONB documents keyed by their identity columns, mirroring
// the document-store shape the frontend works with; developments and the
// audit log are plain rows.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/brightbay/salestrack/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store and AuditLog over a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS developments (
	id             text PRIMARY KEY,
	name           text NOT NULL UNIQUE,
	project_number text NOT NULL DEFAULT '',
	status         text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS units (
	development_id text NOT NULL REFERENCES developments(id),
	unit_number    text NOT NULL,
	data           jsonb NOT NULL,
	updated_at     timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (development_id, unit_number)
);

CREATE TABLE IF NOT EXISTS incentive_schemes (
	id     text PRIMARY KEY,
	data   jsonb NOT NULL,
	active boolean NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS audit_log (
	id             uuid PRIMARY KEY,
	action         text NOT NULL,
	actor          jsonb NOT NULL,
	development_id text NOT NULL DEFAULT '',
	unit_number    text NOT NULL DEFAULT '',
	changes        jsonb,
	rows_affected  integer NOT NULL DEFAULT 0,
	batch_id       text NOT NULL DEFAULT '',
	source         text NOT NULL DEFAULT '',
	created_at     timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS audit_log_created_at_idx ON audit_log (created_at DESC);
CREATE INDEX IF NOT EXISTS audit_log_unit_idx ON audit_log (development_id, unit_number);
`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateDevelopment(ctx context.Context, dev *domain.Development) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO developments (id, name, project_number, status) VALUES ($1, $2, $3, $4)`,
		dev.ID, dev.Name, dev.ProjectNumber, dev.Status)
	if err != nil {
		return fmt.Errorf("insert development: %w", err)
	}
	return nil
}

func (p *Postgres) GetDevelopment(ctx context.Context, id string) (*domain.Development, error) {
	return p.scanDevelopment(p.pool.QueryRow(ctx,
		`SELECT id, name, project_number, status FROM developments WHERE id = $1`, id))
}

func (p *Postgres) GetDevelopmentByName(ctx context.Context, name string) (*domain.Development, error) {
	return p.scanDevelopment(p.pool.QueryRow(ctx,
		`SELECT id, name, project_number, status FROM developments WHERE lower(name) = lower($1)`, name))
}

func (p *Postgres) scanDevelopment(row pgx.Row) (*domain.Development, error) {
	var dev domain.Development
	err := row.Scan(&dev.ID, &dev.Name, &dev.ProjectNumber, &dev.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan development: %w", err)
	}
	return &dev, nil
}

func (p *Postgres) ListDevelopments(ctx context.Context) ([]domain.Development, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, project_number, status FROM developments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list developments: %w", err)
	}
	defer rows.Close()

	var devs []domain.Development
	for rows.Next() {
		var dev domain.Development
		if err := rows.Scan(&dev.ID, &dev.Name, &dev.ProjectNumber, &dev.Status); err != nil {
			return nil, fmt.Errorf("scan development: %w", err)
		}
		devs = append(devs, dev)
	}
	return devs, rows.Err()
}

func (p *Postgres) GetUnit(ctx context.Context, developmentID, unitNumber string) (*domain.Unit, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM units WHERE development_id = $1 AND unit_number = $2`,
		developmentID, unitNumber).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get unit: %w", err)
	}

	var unit domain.Unit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("decode unit %s/%s: %w", developmentID, unitNumber, err)
	}
	return &unit, nil
}

func (p *Postgres) UpsertUnit(ctx context.Context, developmentID string, unit *domain.Unit) error {
	data, err := json.Marshal(unit)
	if err != nil {
		return fmt.Errorf("encode unit: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
INSERT INTO units (development_id, unit_number, data, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (development_id, unit_number)
DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		developmentID, unit.UnitNumber, data)
	if err != nil {
		return fmt.Errorf("upsert unit: %w", err)
	}
	return nil
}

func (p *Postgres) ListUnits(ctx context.Context, developmentID string) ([]domain.Unit, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT data FROM units WHERE development_id = $1 ORDER BY unit_number`, developmentID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		var unit domain.Unit
		if err := json.Unmarshal(data, &unit); err != nil {
			return nil, fmt.Errorf("decode unit: %w", err)
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

func (p *Postgres) GetScheme(ctx context.Context, id string) (*domain.IncentiveScheme, error) {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM incentive_schemes WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scheme: %w", err)
	}

	var scheme domain.IncentiveScheme
	if err := json.Unmarshal(data, &scheme); err != nil {
		return nil, fmt.Errorf("decode scheme %s: %w", id, err)
	}
	return &scheme, nil
}

func (p *Postgres) UpsertScheme(ctx context.Context, scheme *domain.IncentiveScheme) error {
	data, err := json.Marshal(scheme)
	if err != nil {
		return fmt.Errorf("encode scheme: %w", err)
	}

	_, err = p.pool.Exec(ctx, `
INSERT INTO incentive_schemes (id, data, active) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, active = EXCLUDED.active`,
		scheme.ID, data, scheme.Active)
	if err != nil {
		return fmt.Errorf("upsert scheme: %w", err)
	}
	return nil
}

func (p *Postgres) DeleteScheme(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM incentive_schemes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) ListSchemes(ctx context.Context) ([]domain.IncentiveScheme, error) {
	rows, err := p.pool.Query(ctx, `SELECT data FROM incentive_schemes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer rows.Close()

	var schemes []domain.IncentiveScheme
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan scheme: %w", err)
		}
		var scheme domain.IncentiveScheme
		if err := json.Unmarshal(data, &scheme); err != nil {
			return nil, fmt.Errorf("decode scheme: %w", err)
		}
		schemes = append(schemes, scheme)
	}
	return schemes, rows.Err()
}

func (p *Postgres) Append(ctx context.Context, entry *domain.AuditEntry) error {
	actor, err := json.Marshal(entry.Actor)
	if err != nil {
		return fmt.Errorf("encode actor: %w", err)
	}
	var changes []byte
	if len(entry.Changes) > 0 {
		changes, err = json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("encode changes: %w", err)
		}
	}

	_, err = p.pool.Exec(ctx, `
INSERT INTO audit_log (id, action, actor, development_id, unit_number, changes, rows_affected, batch_id, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, string(entry.Action), actor, entry.DevelopmentID, entry.UnitNumber,
		changes, entry.RowsAffected, entry.BatchID, entry.Source, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (p *Postgres) List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	start := filter.Start
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	end := filter.End
	if end.IsZero() {
		end = time.Now().Add(24 * time.Hour)
	}

	// Empty filter values match everything via the sentinel comparisons.
	rows, err := p.pool.Query(ctx, `
SELECT id, action, actor, development_id, unit_number, changes, rows_affected, batch_id, source, created_at
FROM audit_log
WHERE ($1 = '' OR development_id = $1)
  AND ($2 = '' OR unit_number = $2)
  AND ($3 = '' OR action = $3)
  AND created_at BETWEEN $4 AND $5
ORDER BY created_at DESC
LIMIT $6 OFFSET $7`,
		filter.DevelopmentID, filter.UnitNumber, string(filter.Action), start, end, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e       domain.AuditEntry
			action  string
			actor   []byte
			changes []byte
		)
		err := rows.Scan(&e.ID, &action, &actor, &e.DevelopmentID, &e.UnitNumber,
			&changes, &e.RowsAffected, &e.BatchID, &e.Source, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = domain.AuditAction(action)
		if err := json.Unmarshal(actor, &e.Actor); err != nil {
			return nil, fmt.Errorf("decode actor: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, fmt.Errorf("decode changes: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ Store = (*Postgres)(nil)
var _ AuditLog = (*Postgres)(nil)
