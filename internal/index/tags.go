package index

import (
	"context"
	"fmt"

	"github.com/helixpacs/pacsindex/internal/dicom"
)

// SetMainDicomTag stores one tag value for a resource. The tag is
// routed to the identifier table or the general table based on its
// static classification; the routing cannot be overridden per call.
func (idx *Index) SetMainDicomTag(ctx context.Context, id int64, tag dicom.Tag, value string) error {
	table := "MainDicomTags"
	if tag.IsIdentifier() {
		table = "DicomIdentifiers"
	}

	if _, err := idx.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO "+table+" VALUES(?, ?, ?, ?)",
		id, tag.Group, tag.Element, value,
	); err != nil {
		return fmt.Errorf("set tag %s: %w", tag, err)
	}
	return nil
}

// GetMainDicomTags returns every tag value of a resource, merging the
// general and identifier sets.
func (idx *Index) GetMainDicomTags(ctx context.Context, id int64) (map[dicom.Tag]string, error) {
	tags := map[dicom.Tag]string{}

	for _, table := range []string{"MainDicomTags", "DicomIdentifiers"} {
		rows, err := idx.db.QueryContext(ctx,
			"SELECT tagGroup, tagElement, value FROM "+table+" WHERE id=?", id)
		if err != nil {
			return nil, fmt.Errorf("get tags: %w", err)
		}

		for rows.Next() {
			var tag dicom.Tag
			var value string
			if err := rows.Scan(&tag.Group, &tag.Element, &value); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan tag: %w", err)
			}
			tags[tag] = value
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate tags: %w", err)
		}
		rows.Close()
	}

	return tags, nil
}

// LookupIdentifier returns the internal ids of every resource whose
// identifier tag carries the given value. Calling it with a tag
// outside the identifier set is a PARAMETER_OUT_OF_RANGE error.
func (idx *Index) LookupIdentifier(ctx context.Context, tag dicom.Tag, value string) ([]int64, error) {
	if !tag.IsIdentifier() {
		return nil, &Error{
			Code:    ErrCodeParameterOutOfRange,
			Message: fmt.Sprintf("tag %s is not an identifier", tag),
		}
	}

	return idx.queryIDs(ctx,
		"SELECT id FROM DicomIdentifiers WHERE tagGroup=? AND tagElement=? AND value=?",
		tag.Group, tag.Element, value)
}

// LookupIdentifierValue matches the value against any identifier tag,
// irrespective of (group, element).
func (idx *Index) LookupIdentifierValue(ctx context.Context, value string) ([]int64, error) {
	return idx.queryIDs(ctx,
		"SELECT id FROM DicomIdentifiers WHERE value=?", value)
}

func (idx *Index) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query identifiers: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan identifier: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identifiers: %w", err)
	}
	return ids, nil
}
