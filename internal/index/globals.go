package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetGlobalProperty upserts one persistent server-wide setting.
func (idx *Index) SetGlobalProperty(ctx context.Context, property GlobalProperty, value string) error {
	if _, err := idx.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO GlobalProperties VALUES(?, ?)",
		property, value,
	); err != nil {
		return fmt.Errorf("set global property: %w", err)
	}
	return nil
}

// LookupGlobalProperty returns one setting, with ok=false when it was
// never stored.
func (idx *Index) LookupGlobalProperty(ctx context.Context, property GlobalProperty) (string, bool, error) {
	var value string
	err := idx.db.QueryRowContext(ctx,
		"SELECT value FROM GlobalProperties WHERE property=?", property,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup global property: %w", err)
	}
	return value, true, nil
}

// GetTableRecordCount counts the rows of one schema table. The table
// name comes from the fixed logical schema, never from user input.
func (idx *Index) GetTableRecordCount(ctx context.Context, table string) (int64, error) {
	var count int64
	err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
	if err != nil {
		return 0, errInternalf("count rows of %s: %v", table, err)
	}
	return count, nil
}

// ClearTable removes every row of one schema table. Deletion triggers
// fire as usual; the collected events are discarded, not dispatched.
func (idx *Index) ClearTable(ctx context.Context, table string) error {
	idx.signals.reset()
	defer idx.signals.reset()

	if _, err := idx.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear table %s: %w", table, err)
	}
	return nil
}
