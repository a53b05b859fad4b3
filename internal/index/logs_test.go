package index

import (
	"context"
	"fmt"
	"testing"
)

func logChanges(t *testing.T, idx *Index, id int64, count int) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < count; i++ {
		change := Change{
			ChangeType:   ChangeNewInstance,
			ResourceType: ResourceInstance,
			Date:         fmt.Sprintf("20240101T%06d", i),
		}
		if err := idx.LogChange(ctx, id, change); err != nil {
			t.Fatalf("LogChange() failed: %v", err)
		}
	}
}

func TestGetChanges_PaginationExactWindow(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	id, err := idx.CreateResource(ctx, "instance", ResourceInstance)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}
	logChanges(t, idx, id, 3)

	// Exactly N records with maxResults=N: done on the first page.
	changes, done, err := idx.GetChanges(ctx, 0, 3)
	if err != nil {
		t.Fatalf("GetChanges() failed: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	if !done {
		t.Error("done = false over an exactly-full window")
	}

	for i, c := range changes {
		if i > 0 && c.Seq <= changes[i-1].Seq {
			t.Errorf("sequence not strictly increasing: %d then %d", changes[i-1].Seq, c.Seq)
		}
		if c.PublicID != "instance" {
			t.Errorf("public id = %q, want %q", c.PublicID, "instance")
		}
	}
}

func TestGetChanges_PaginationOverflow(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	id, err := idx.CreateResource(ctx, "instance", ResourceInstance)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}
	logChanges(t, idx, id, 4)

	changes, done, err := idx.GetChanges(ctx, 0, 3)
	if err != nil {
		t.Fatalf("GetChanges() failed: %v", err)
	}
	if len(changes) != 3 || done {
		t.Fatalf("first page: %d changes, done=%v; want 3, false", len(changes), done)
	}

	cursor := changes[len(changes)-1].Seq
	changes, done, err = idx.GetChanges(ctx, cursor, 3)
	if err != nil {
		t.Fatalf("GetChanges(cursor) failed: %v", err)
	}
	if len(changes) != 1 || !done {
		t.Errorf("second page: %d changes, done=%v; want 1, true", len(changes), done)
	}
}

func TestGetLastChange(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	if _, ok, err := idx.GetLastChange(ctx); err != nil || ok {
		t.Fatalf("GetLastChange(empty) = ok=%v, err=%v", ok, err)
	}

	id, err := idx.CreateResource(ctx, "series", ResourceSeries)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}
	if err := idx.LogChange(ctx, id, Change{ChangeType: ChangeNewSeries, ResourceType: ResourceSeries, Date: "a"}); err != nil {
		t.Fatalf("LogChange() failed: %v", err)
	}
	if err := idx.LogChange(ctx, id, Change{ChangeType: ChangeCompletedSeries, ResourceType: ResourceSeries, Date: "b"}); err != nil {
		t.Fatalf("LogChange() failed: %v", err)
	}

	last, ok, err := idx.GetLastChange(ctx)
	if err != nil || !ok {
		t.Fatalf("GetLastChange() = ok=%v, err=%v", ok, err)
	}
	if last.ChangeType != ChangeCompletedSeries || last.Date != "b" {
		t.Errorf("last change = %+v", last)
	}
}

func testExport(modality string) ExportedResource {
	return ExportedResource{
		ResourceType:      ResourceStudy,
		PublicID:          "study",
		Modality:          modality,
		Date:              "20240301T101500",
		PatientID:         "PID",
		StudyInstanceUID:  "1.2.3",
		SeriesInstanceUID: "",
		SOPInstanceUID:    "",
	}
}

func TestExportedResources_Pagination(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if err := idx.LogExportedResource(ctx, testExport(fmt.Sprintf("PACS%d", i))); err != nil {
			t.Fatalf("LogExportedResource() failed: %v", err)
		}
	}

	exported, done, err := idx.GetExportedResources(ctx, 0, 3)
	if err != nil {
		t.Fatalf("GetExportedResources() failed: %v", err)
	}
	if len(exported) != 3 || done {
		t.Fatalf("first page: %d records, done=%v; want 3, false", len(exported), done)
	}
	if exported[0].Modality != "PACS0" || exported[0].StudyInstanceUID != "1.2.3" {
		t.Errorf("first record = %+v", exported[0])
	}

	cursor := exported[len(exported)-1].Seq
	exported, done, err = idx.GetExportedResources(ctx, cursor, 3)
	if err != nil {
		t.Fatalf("GetExportedResources(cursor) failed: %v", err)
	}
	if len(exported) != 1 || !done {
		t.Errorf("second page: %d records, done=%v; want 1, true", len(exported), done)
	}
	if exported[0].Modality != "PACS3" {
		t.Errorf("final record = %+v", exported[0])
	}

	last, ok, err := idx.GetLastExportedResource(ctx)
	if err != nil || !ok {
		t.Fatalf("GetLastExportedResource() = ok=%v, err=%v", ok, err)
	}
	if last.Modality != "PACS3" {
		t.Errorf("last exported = %+v", last)
	}
}

func TestLogs_IndependentSequences(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	id, err := idx.CreateResource(ctx, "instance", ResourceInstance)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}
	logChanges(t, idx, id, 2)
	if err := idx.LogExportedResource(ctx, testExport("PACS")); err != nil {
		t.Fatalf("LogExportedResource() failed: %v", err)
	}

	// The export log starts its own sequence space.
	exported, _, err := idx.GetExportedResources(ctx, 0, 10)
	if err != nil {
		t.Fatalf("GetExportedResources() failed: %v", err)
	}
	if len(exported) != 1 || exported[0].Seq != 1 {
		t.Errorf("exported = %+v, want a single record with seq 1", exported)
	}
}
