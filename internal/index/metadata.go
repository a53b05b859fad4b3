package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SetMetadata upserts one metadata value for a resource.
func (idx *Index) SetMetadata(ctx context.Context, id int64, metadataType MetadataType, value string) error {
	if _, err := idx.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO Metadata VALUES(?, ?, ?)",
		id, metadataType, value,
	); err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

// DeleteMetadata removes one metadata value; removing an absent value
// is a no-op.
func (idx *Index) DeleteMetadata(ctx context.Context, id int64, metadataType MetadataType) error {
	if _, err := idx.db.ExecContext(ctx,
		"DELETE FROM Metadata WHERE id=? AND type=?",
		id, metadataType,
	); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

// LookupMetadata returns one metadata value, with ok=false when
// absent.
func (idx *Index) LookupMetadata(ctx context.Context, id int64, metadataType MetadataType) (string, bool, error) {
	var value string
	err := idx.db.QueryRowContext(ctx,
		"SELECT value FROM Metadata WHERE id=? AND type=?",
		id, metadataType,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup metadata: %w", err)
	}
	return value, true, nil
}

// ListAvailableMetadata returns the metadata types present on a
// resource.
func (idx *Index) ListAvailableMetadata(ctx context.Context, id int64) ([]MetadataType, error) {
	rows, err := idx.db.QueryContext(ctx,
		"SELECT type FROM Metadata WHERE id=?", id)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	defer rows.Close()

	types := []MetadataType{}
	for rows.Next() {
		var t MetadataType
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan metadata type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata: %w", err)
	}
	return types, nil
}

// GetAllMetadata returns every metadata value of a resource keyed by
// type.
func (idx *Index) GetAllMetadata(ctx context.Context, id int64) (map[MetadataType]string, error) {
	rows, err := idx.db.QueryContext(ctx,
		"SELECT type, value FROM Metadata WHERE id=?", id)
	if err != nil {
		return nil, fmt.Errorf("get all metadata: %w", err)
	}
	defer rows.Close()

	values := map[MetadataType]string{}
	for rows.Next() {
		var t MetadataType
		var v string
		if err := rows.Scan(&t, &v); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		values[t] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata: %w", err)
	}
	return values, nil
}
