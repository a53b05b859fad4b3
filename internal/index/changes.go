package index

import (
	"context"
	"fmt"
)

// LogChange appends one entry to the change log. The sequence number
// is assigned by the backend; the index never infers changes from
// mutations it did not receive a log call for.
func (idx *Index) LogChange(ctx context.Context, internalID int64, change Change) error {
	if _, err := idx.db.ExecContext(ctx,
		"INSERT INTO Changes VALUES(NULL, ?, ?, ?, ?)",
		change.ChangeType, internalID, change.ResourceType, change.Date,
	); err != nil {
		return fmt.Errorf("log change: %w", err)
	}
	return nil
}

// GetChanges returns the changes with sequence strictly greater than
// since, ascending, capped at maxResults. done is false iff a further
// record provably exists beyond the window (one extra row is
// requested internally to decide). The public id of each change is
// resolved at read time: a logged internal id that no longer resolves
// surfaces UNKNOWN_RESOURCE.
func (idx *Index) GetChanges(ctx context.Context, since int64, maxResults uint32) ([]Change, bool, error) {
	return idx.getChanges(ctx,
		"SELECT seq, changeType, internalId, resourceType, date FROM Changes WHERE seq>? ORDER BY seq LIMIT ?",
		maxResults, since, maxResults+1)
}

// GetLastChange returns the single most recent change, with ok=false
// on an empty log.
func (idx *Index) GetLastChange(ctx context.Context) (Change, bool, error) {
	changes, _, err := idx.getChanges(ctx,
		"SELECT seq, changeType, internalId, resourceType, date FROM Changes ORDER BY seq DESC LIMIT 1",
		1)
	if err != nil {
		return Change{}, false, err
	}
	if len(changes) == 0 {
		return Change{}, false, nil
	}
	return changes[0], true, nil
}

func (idx *Index) getChanges(ctx context.Context, query string, maxResults uint32, args ...any) ([]Change, bool, error) {
	type rawChange struct {
		change     Change
		internalID int64
	}

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("query changes: %w", err)
	}

	// Scan everything before resolving public ids: the single
	// connection cannot serve a nested query while rows are open.
	raw := []rawChange{}
	for rows.Next() {
		var r rawChange
		if err := rows.Scan(&r.change.Seq, &r.change.ChangeType, &r.internalID,
			&r.change.ResourceType, &r.change.Date); err != nil {
			rows.Close()
			return nil, false, fmt.Errorf("scan change: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, false, fmt.Errorf("iterate changes: %w", err)
	}
	rows.Close()

	done := true
	if uint32(len(raw)) > maxResults {
		done = false
		raw = raw[:maxResults]
	}

	changes := []Change{}
	for _, r := range raw {
		publicID, err := idx.GetPublicID(ctx, r.internalID)
		if err != nil {
			return nil, false, err
		}
		r.change.PublicID = publicID
		changes = append(changes, r.change)
	}

	return changes, done, nil
}
