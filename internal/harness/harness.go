package harness

import (
	"context"
	"fmt"
	"sort"

	"github.com/helixpacs/pacsindex/internal/index"
	"github.com/helixpacs/pacsindex/internal/testutil"
)

// Result holds the observed signals of one scenario run and the
// failures found when diffing them against the expectation.
type Result struct {
	Passed   bool
	Failures []string

	// Deleted holds the public ids reported through Deleted changes.
	Deleted []string

	// Files holds the attachment uuids reported as removed.
	Files []string

	// Ancestors holds every surviving-ancestor report, at most one for
	// a conforming run.
	Ancestors []AncestorExpect
}

// recorder captures every listener callback of a run.
type recorder struct {
	deleted   []string
	files     []string
	ancestors []AncestorExpect
}

func (r *recorder) SignalFileDeleted(info index.FileInfo) {
	r.files = append(r.files, info.UUID)
}

func (r *recorder) SignalChange(change index.Change) {
	if change.ChangeType == index.ChangeDeleted {
		r.deleted = append(r.deleted, change.PublicID)
	}
}

func (r *recorder) SignalRemainingAncestor(resourceType index.ResourceType, publicID string) {
	r.ancestors = append(r.ancestors, AncestorExpect{
		Type:     resourceType.String(),
		PublicID: publicID,
	})
}

// Run executes a scenario against a fresh in-memory index. Each run
// is fully isolated; a deterministic clock stamps the change log so
// repeated runs are identical.
func Run(scenario *Scenario) (*Result, error) {
	idx, err := index.OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("open in-memory index: %w", err)
	}
	defer idx.Close()

	ctx := context.Background()
	clock := testutil.NewFixedClock("20240101")

	ids := map[string]int64{}
	for _, step := range scenario.Resources {
		resourceType, err := parseResourceType(step.Type)
		if err != nil {
			return nil, err
		}

		id, err := idx.CreateResource(ctx, step.PublicID, resourceType)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", step.PublicID, err)
		}
		ids[step.PublicID] = id

		if step.Parent != "" {
			if err := idx.AttachChild(ctx, ids[step.Parent], id); err != nil {
				return nil, fmt.Errorf("attach %s under %s: %w", step.PublicID, step.Parent, err)
			}
		}

		if err := idx.LogChange(ctx, id, index.Change{
			ChangeType:   creationChange(resourceType),
			ResourceType: resourceType,
			Date:         clock.Now(),
		}); err != nil {
			return nil, fmt.Errorf("log creation of %s: %w", step.PublicID, err)
		}

		for _, att := range step.Attachments {
			contentType, err := parseContentType(att.ContentType)
			if err != nil {
				return nil, err
			}
			if err := idx.AddAttachment(ctx, id, index.FileInfo{
				UUID:             att.UUID,
				ContentType:      contentType,
				UncompressedSize: att.UncompressedSize,
				UncompressedMD5:  "md5-" + att.UUID,
				CompressionType:  index.CompressionNone,
				CompressedSize:   att.CompressedSize,
				CompressedMD5:    "md5-" + att.UUID,
			}); err != nil {
				return nil, fmt.Errorf("attach %s to %s: %w", att.UUID, step.PublicID, err)
			}
		}

		if step.Unprotected {
			if err := idx.SetProtectedPatient(ctx, id, false); err != nil {
				return nil, fmt.Errorf("unprotect %s: %w", step.PublicID, err)
			}
		}
	}

	rec := &recorder{}
	idx.SetListener(rec)

	if err := idx.DeleteResource(ctx, ids[scenario.Delete]); err != nil {
		return nil, fmt.Errorf("delete %s: %w", scenario.Delete, err)
	}

	result := &Result{
		Deleted:   sorted(rec.deleted),
		Files:     sorted(rec.files),
		Ancestors: rec.ancestors,
	}
	result.Failures = evaluate(&scenario.Expect, result)
	result.Passed = len(result.Failures) == 0
	return result, nil
}

// evaluate diffs the observed signals against the expectation and
// returns one failure message per mismatch.
func evaluate(expect *Expectation, result *Result) []string {
	var failures []string

	if want := sorted(expect.Deleted); !equalStrings(result.Deleted, want) {
		failures = append(failures,
			fmt.Sprintf("deleted resources: got %v, want %v", result.Deleted, want))
	}
	if want := sorted(expect.Files); !equalStrings(result.Files, want) {
		failures = append(failures,
			fmt.Sprintf("deleted files: got %v, want %v", result.Files, want))
	}

	switch {
	case expect.Ancestor == nil:
		if len(result.Ancestors) != 0 {
			failures = append(failures,
				fmt.Sprintf("unexpected ancestor reports: %v", result.Ancestors))
		}
	case len(result.Ancestors) != 1:
		failures = append(failures,
			fmt.Sprintf("got %d ancestor reports, want exactly 1", len(result.Ancestors)))
	case result.Ancestors[0] != *expect.Ancestor:
		failures = append(failures,
			fmt.Sprintf("ancestor: got %+v, want %+v", result.Ancestors[0], *expect.Ancestor))
	}

	return failures
}

func creationChange(t index.ResourceType) index.ChangeType {
	switch t {
	case index.ResourcePatient:
		return index.ChangeNewPatient
	case index.ResourceStudy:
		return index.ChangeNewStudy
	case index.ResourceSeries:
		return index.ChangeNewSeries
	default:
		return index.ChangeNewInstance
	}
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
