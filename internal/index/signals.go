package index

import (
	"context"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// deletedResource is one resource row removed by a cascading delete.
type deletedResource struct {
	publicID     string
	resourceType ResourceType
}

// survivingAncestor is one ancestor that outlived a cascading delete
// while its subtree lost a member.
type survivingAncestor struct {
	internalID   int64
	publicID     string
	resourceType ResourceType
}

// deleteSignals collects the side effects of one cascading statement.
// The scalar functions below append to it while the statement runs;
// the collector is reset at the start of every deleting operation and
// drained once the statement completes.
type deleteSignals struct {
	files     []FileInfo
	resources []deletedResource
	ancestors []survivingAncestor
}

func (s *deleteSignals) reset() {
	s.files = nil
	s.resources = nil
	s.ancestors = nil
}

// registerSignalFunctions installs the scalar functions referenced by
// the schema triggers on a new connection. Each function closes over
// its owning Index; nothing is recovered through global state.
func (idx *Index) registerSignalFunctions(conn *sqlite3.SQLiteConn) error {
	if err := conn.RegisterFunc("SignalFileDeleted", idx.signalFileDeleted, false); err != nil {
		return fmt.Errorf("register SignalFileDeleted: %w", err)
	}
	if err := conn.RegisterFunc("SignalResourceDeleted", idx.signalResourceDeleted, false); err != nil {
		return fmt.Errorf("register SignalResourceDeleted: %w", err)
	}
	if err := conn.RegisterFunc("SignalRemainingAncestor", idx.signalRemainingAncestor, false); err != nil {
		return fmt.Errorf("register SignalRemainingAncestor: %w", err)
	}
	return nil
}

func (idx *Index) signalFileDeleted(uuid string, fileType, uncompressedSize, compressionType, compressedSize int64, uncompressedMD5, compressedMD5 string) int64 {
	idx.signals.files = append(idx.signals.files, FileInfo{
		UUID:             uuid,
		ContentType:      FileContentType(fileType),
		UncompressedSize: uint64(uncompressedSize),
		UncompressedMD5:  uncompressedMD5,
		CompressionType:  CompressionType(compressionType),
		CompressedSize:   uint64(compressedSize),
		CompressedMD5:    compressedMD5,
	})
	return 0
}

func (idx *Index) signalResourceDeleted(publicID string, resourceType int64) int64 {
	idx.signals.resources = append(idx.signals.resources, deletedResource{
		publicID:     publicID,
		resourceType: ResourceType(resourceType),
	})
	return 0
}

func (idx *Index) signalRemainingAncestor(publicID string, resourceType, internalID int64) int64 {
	idx.signals.ancestors = append(idx.signals.ancestors, survivingAncestor{
		internalID:   internalID,
		publicID:     publicID,
		resourceType: ResourceType(resourceType),
	})
	return 0
}

// drainDeleteSignals dispatches the collected events to the listener
// in three fixed batches: one SignalFileDeleted per physically removed
// attachment, one Deleted change per removed resource, then at most
// one SignalRemainingAncestor naming the topmost surviving ancestor.
func (idx *Index) drainDeleteSignals(ctx context.Context) error {
	files := idx.signals.files
	resources := idx.signals.resources
	ancestors := idx.signals.ancestors
	idx.signals.reset()

	if idx.listener == nil {
		return nil
	}

	events, err := idx.survivingAncestors(ctx, ancestors)
	if err != nil {
		return err
	}

	for _, f := range files {
		idx.listener.SignalFileDeleted(f)
	}

	for _, r := range resources {
		idx.listener.SignalChange(Change{
			ChangeType:   ChangeDeleted,
			ResourceType: r.resourceType,
			PublicID:     r.publicID,
		})
	}

	if best, ok := topmostAncestor(events); ok {
		idx.listener.SignalRemainingAncestor(best.resourceType, best.publicID)
	}

	return nil
}

// survivingAncestors extends the surviving parents reported by the
// delete triggers with the rest of their ancestor chain: every
// surviving ancestor whose subtree lost a member yields one event.
func (idx *Index) survivingAncestors(ctx context.Context, reported []survivingAncestor) ([]survivingAncestor, error) {
	events := make([]survivingAncestor, 0, len(reported))

	for _, a := range reported {
		events = append(events, a)

		id := a.internalID
		for {
			parent, ok, err := idx.LookupParent(ctx, id)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}

			publicID, err := idx.GetPublicID(ctx, parent)
			if err != nil {
				return nil, err
			}
			resourceType, err := idx.GetResourceType(ctx, parent)
			if err != nil {
				return nil, err
			}

			events = append(events, survivingAncestor{
				internalID:   parent,
				publicID:     publicID,
				resourceType: resourceType,
			})
			id = parent
		}
	}

	return events, nil
}

// topmostAncestor reduces the ancestor-survival events of one delete
// to the single retained report. The candidate replaces the current
// best when no ancestor is recorded yet or when the recorded type is
// greater than or equal to the candidate's, so the most recent report
// at the minimal level wins.
func topmostAncestor(events []survivingAncestor) (survivingAncestor, bool) {
	var best survivingAncestor
	has := false
	for _, ev := range events {
		if !has || best.resourceType >= ev.resourceType {
			best = ev
			has = true
		}
	}
	return best, has
}
