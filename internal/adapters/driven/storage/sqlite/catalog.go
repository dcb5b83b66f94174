package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/typefinder/internal/core/domain"
	"github.com/custodia-labs/typefinder/internal/core/ports/driven"
)

// scanCatalog implements driven.ScanCatalog.
type scanCatalog struct {
	store *Store
}

var _ driven.ScanCatalog = (*scanCatalog)(nil)

// Save stores or replaces a scan record.
func (c *scanCatalog) Save(ctx context.Context, record domain.ScanRecord) error {
	if record.ID == "" {
		return domain.ErrInvalidInput
	}

	modules, err := marshalList(record.Modules)
	if err != nil {
		return fmt.Errorf("marshalling modules: %w", err)
	}
	types, err := marshalList(record.Types)
	if err != nil {
		return fmt.Errorf("marshalling types: %w", err)
	}
	failures, err := marshalList(record.Failures)
	if err != nil {
		return fmt.Errorf("marshalling failures: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO scan_records (id, contract, concrete_only, started_at, duration_ns, modules, types, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			contract = excluded.contract,
			concrete_only = excluded.concrete_only,
			started_at = excluded.started_at,
			duration_ns = excluded.duration_ns,
			modules = excluded.modules,
			types = excluded.types,
			failures = excluded.failures
	`, record.ID, record.Contract, boolToInt(record.ConcreteOnly),
		record.StartedAt.UnixNano(), int64(record.Duration),
		modules, types, failures)
	if err != nil {
		return fmt.Errorf("saving scan record: %w", err)
	}
	return nil
}

// Get retrieves a scan record by ID.
func (c *scanCatalog) Get(ctx context.Context, id string) (*domain.ScanRecord, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT id, contract, concrete_only, started_at, duration_ns, modules, types, failures
		FROM scan_records WHERE id = ?
	`, id)
	return scanRecord(row)
}

// List returns up to limit records, newest first.
func (c *scanCatalog) List(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, contract, concrete_only, started_at, duration_ns, modules, types, failures
		FROM scan_records
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scan records: %w", err)
	}
	defer rows.Close()

	var records []domain.ScanRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan records: %w", err)
	}
	return records, nil
}

// Delete removes a scan record.
func (c *scanCatalog) Delete(ctx context.Context, id string) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM scan_records WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting scan record: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.ScanRecord, error) {
	var (
		record                   domain.ScanRecord
		concreteOnly             int
		startedAt, duration      int64
		modules, types, failures string
	)
	err := row.Scan(&record.ID, &record.Contract, &concreteOnly, &startedAt, &duration, &modules, &types, &failures)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning scan record: %w", err)
	}

	record.ConcreteOnly = concreteOnly == 1
	record.StartedAt = time.Unix(0, startedAt).UTC()
	record.Duration = time.Duration(duration)
	if err := unmarshalList(modules, &record.Modules); err != nil {
		return nil, fmt.Errorf("unmarshalling modules: %w", err)
	}
	if err := unmarshalList(types, &record.Types); err != nil {
		return nil, fmt.Errorf("unmarshalling types: %w", err)
	}
	if err := unmarshalList(failures, &record.Failures); err != nil {
		return nil, fmt.Errorf("unmarshalling failures: %w", err)
	}
	return &record, nil
}

// marshalList encodes a list as JSON; nil is stored as "[]".
func marshalList[T any](items []T) (string, error) {
	if items == nil {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	return string(data), err
}

// unmarshalList decodes a JSON list; an empty list decodes to nil.
func unmarshalList[T any](data string, out *[]T) error {
	var items []T
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return err
	}
	if len(items) > 0 {
		*out = items
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
