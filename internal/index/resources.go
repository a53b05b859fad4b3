package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateResource inserts a new resource with a null parent and
// returns its backend-assigned internal id. A duplicate public id
// surfaces the backend constraint violation unchanged.
func (idx *Index) CreateResource(ctx context.Context, publicID string, resourceType ResourceType) (int64, error) {
	res, err := idx.db.ExecContext(ctx,
		"INSERT INTO Resources VALUES(NULL, ?, ?, NULL)",
		resourceType, publicID,
	)
	if err != nil {
		return 0, fmt.Errorf("create resource: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create resource: last insert id: %w", err)
	}
	return id, nil
}

// LookupResource resolves a public id to its internal id and type.
// Two rows sharing one public id is a corruption condition and
// surfaces as INTERNAL_ERROR.
func (idx *Index) LookupResource(ctx context.Context, publicID string) (int64, ResourceType, bool, error) {
	rows, err := idx.db.QueryContext(ctx,
		"SELECT internalId, resourceType FROM Resources WHERE publicId=?",
		publicID,
	)
	if err != nil {
		return 0, 0, false, fmt.Errorf("lookup resource: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, 0, false, fmt.Errorf("lookup resource: %w", err)
		}
		return 0, 0, false, nil
	}

	var id int64
	var resourceType ResourceType
	if err := rows.Scan(&id, &resourceType); err != nil {
		return 0, 0, false, fmt.Errorf("lookup resource: %w", err)
	}

	if rows.Next() {
		return 0, 0, false, errInternalf("multiple resources share public id %q", publicID)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, false, fmt.Errorf("lookup resource: %w", err)
	}

	return id, resourceType, true, nil
}

// IsExistingResource reports whether the internal id denotes a live
// resource.
func (idx *Index) IsExistingResource(ctx context.Context, id int64) (bool, error) {
	var found int64
	err := idx.db.QueryRowContext(ctx,
		"SELECT internalId FROM Resources WHERE internalId=?", id,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check resource: %w", err)
	}
	return true, nil
}

// GetPublicID returns the public id of a resource, or
// UNKNOWN_RESOURCE if the id does not exist.
func (idx *Index) GetPublicID(ctx context.Context, id int64) (string, error) {
	var publicID string
	err := idx.db.QueryRowContext(ctx,
		"SELECT publicId FROM Resources WHERE internalId=?", id,
	).Scan(&publicID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errUnknownResource(id)
	}
	if err != nil {
		return "", fmt.Errorf("get public id: %w", err)
	}
	return publicID, nil
}

// GetResourceType returns the hierarchy level of a resource, or
// UNKNOWN_RESOURCE if the id does not exist.
func (idx *Index) GetResourceType(ctx context.Context, id int64) (ResourceType, error) {
	var resourceType ResourceType
	err := idx.db.QueryRowContext(ctx,
		"SELECT resourceType FROM Resources WHERE internalId=?", id,
	).Scan(&resourceType)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errUnknownResource(id)
	}
	if err != nil {
		return 0, fmt.Errorf("get resource type: %w", err)
	}
	return resourceType, nil
}

// LookupParent returns the parent of a resource, with ok=false for a
// top-level resource. The id itself must exist.
func (idx *Index) LookupParent(ctx context.Context, id int64) (int64, bool, error) {
	var parent sql.NullInt64
	err := idx.db.QueryRowContext(ctx,
		"SELECT parentId FROM Resources WHERE internalId=?", id,
	).Scan(&parent)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, errUnknownResource(id)
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup parent: %w", err)
	}
	if !parent.Valid {
		return 0, false, nil
	}
	return parent.Int64, true, nil
}

// GetParentPublicID returns the public id of the parent resource,
// with ok=false when the resource has no parent or does not exist.
func (idx *Index) GetParentPublicID(ctx context.Context, id int64) (string, bool, error) {
	var publicID string
	err := idx.db.QueryRowContext(ctx,
		`SELECT a.publicId FROM Resources AS a, Resources AS b
		 WHERE a.internalId = b.parentId AND b.internalId = ?`, id,
	).Scan(&publicID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get parent public id: %w", err)
	}
	return publicID, true, nil
}

// AttachChild reparents child under parent, unconditionally. No cycle
// or level check is performed here: tree-shape correctness is the
// caller's obligation.
func (idx *Index) AttachChild(ctx context.Context, parent, child int64) error {
	if _, err := idx.db.ExecContext(ctx,
		"UPDATE Resources SET parentId = ? WHERE internalId = ?",
		parent, child,
	); err != nil {
		return fmt.Errorf("attach child: %w", err)
	}
	return nil
}

// GetChildren returns the public ids of the direct children of a
// resource.
func (idx *Index) GetChildren(ctx context.Context, id int64) ([]string, error) {
	return idx.queryStrings(ctx,
		"SELECT publicId FROM Resources WHERE parentId=?", id)
}

// GetChildrenPublicID returns the children's public ids through a
// join on the parent relation.
func (idx *Index) GetChildrenPublicID(ctx context.Context, id int64) ([]string, error) {
	return idx.queryStrings(ctx,
		`SELECT a.publicId FROM Resources AS a, Resources AS b
		 WHERE a.parentId = b.internalId AND b.internalId = ?`, id)
}

// GetChildrenInternalID returns the children's internal ids through a
// join on the parent relation.
func (idx *Index) GetChildrenInternalID(ctx context.Context, id int64) ([]int64, error) {
	rows, err := idx.db.QueryContext(ctx,
		`SELECT a.internalId FROM Resources AS a, Resources AS b
		 WHERE a.parentId = b.internalId AND b.internalId = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var child int64
		if err := rows.Scan(&child); err != nil {
			return nil, fmt.Errorf("scan child: %w", err)
		}
		ids = append(ids, child)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children: %w", err)
	}
	return ids, nil
}

// DeleteResource removes the resource and, through the declarative
// cascade, all its descendants with their attachments, metadata, tags
// and log rows, as one atomic statement. The collected side effects
// are dispatched to the listener before the call returns. Deleting a
// nonexistent id is not an error: zero rows, zero signals.
func (idx *Index) DeleteResource(ctx context.Context, id int64) error {
	idx.signals.reset()

	if _, err := idx.db.ExecContext(ctx,
		"DELETE FROM Resources WHERE internalId=?", id,
	); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	return idx.drainDeleteSignals(ctx)
}

// GetAllPublicIDs enumerates the public ids of every resource at one
// hierarchy level.
func (idx *Index) GetAllPublicIDs(ctx context.Context, resourceType ResourceType) ([]string, error) {
	return idx.queryStrings(ctx,
		"SELECT publicId FROM Resources WHERE resourceType=?", resourceType)
}

// GetResourceCount returns the number of resources at one hierarchy
// level.
func (idx *Index) GetResourceCount(ctx context.Context, resourceType ResourceType) (uint64, error) {
	var count uint64
	err := idx.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM Resources WHERE resourceType=?", resourceType,
	).Scan(&count)
	if err != nil {
		return 0, errInternalf("count resources: %v", err)
	}
	return count, nil
}

func (idx *Index) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return values, nil
}
