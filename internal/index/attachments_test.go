package index

import (
	"context"
	"sort"
	"testing"
)

func TestAddAttachment_LookupRoundtrip(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	patient, err := idx.CreateResource(ctx, "patient", ResourcePatient)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}

	want := FileInfo{
		UUID:             "blob-1",
		ContentType:      FileContentDicom,
		UncompressedSize: 2048,
		UncompressedMD5:  "md5-raw",
		CompressionType:  CompressionZlib,
		CompressedSize:   512,
		CompressedMD5:    "md5-zlib",
	}
	if err := idx.AddAttachment(ctx, patient, want); err != nil {
		t.Fatalf("AddAttachment() failed: %v", err)
	}

	got, ok, err := idx.LookupAttachment(ctx, patient, FileContentDicom)
	if err != nil {
		t.Fatalf("LookupAttachment() failed: %v", err)
	}
	if !ok {
		t.Fatal("LookupAttachment() did not find the attachment")
	}
	if got != want {
		t.Errorf("attachment = %+v, want %+v", got, want)
	}

	if _, ok, err := idx.LookupAttachment(ctx, patient, FileContentDicomAsJSON); err != nil || ok {
		t.Errorf("LookupAttachment(absent) = ok=%v, err=%v", ok, err)
	}
}

func TestAddAttachment_ReplacesSameContentType(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	patient, err := idx.CreateResource(ctx, "patient", ResourcePatient)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}

	if err := idx.AddAttachment(ctx, patient, testAttachment("blob-old")); err != nil {
		t.Fatalf("AddAttachment() failed: %v", err)
	}
	if err := idx.AddAttachment(ctx, patient, testAttachment("blob-new")); err != nil {
		t.Fatalf("AddAttachment(replace) failed: %v", err)
	}

	got, ok, err := idx.LookupAttachment(ctx, patient, FileContentDicom)
	if err != nil || !ok {
		t.Fatalf("LookupAttachment() = ok=%v, err=%v", ok, err)
	}
	if got.UUID != "blob-new" {
		t.Errorf("uuid = %q, want %q", got.UUID, "blob-new")
	}

	count, err := idx.GetTableRecordCount(ctx, "AttachedFiles")
	if err != nil {
		t.Fatalf("GetTableRecordCount() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("attachment rows = %d, want 1", count)
	}
}

func TestListAvailableAttachments(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	patient, err := idx.CreateResource(ctx, "patient", ResourcePatient)
	if err != nil {
		t.Fatalf("CreateResource() failed: %v", err)
	}

	types, err := idx.ListAvailableAttachments(ctx, patient)
	if err != nil {
		t.Fatalf("ListAvailableAttachments() failed: %v", err)
	}
	if len(types) != 0 {
		t.Errorf("fresh resource has attachments: %v", types)
	}

	dicomBlob := testAttachment("blob-dicom")
	jsonBlob := testAttachment("blob-json")
	jsonBlob.ContentType = FileContentDicomAsJSON
	if err := idx.AddAttachment(ctx, patient, dicomBlob); err != nil {
		t.Fatalf("AddAttachment() failed: %v", err)
	}
	if err := idx.AddAttachment(ctx, patient, jsonBlob); err != nil {
		t.Fatalf("AddAttachment() failed: %v", err)
	}

	types, err = idx.ListAvailableAttachments(ctx, patient)
	if err != nil {
		t.Fatalf("ListAvailableAttachments() failed: %v", err)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	if len(types) != 2 || types[0] != FileContentDicom || types[1] != FileContentDicomAsJSON {
		t.Errorf("ListAvailableAttachments() = %v", types)
	}
}

func TestGetTotalSizes(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	// Empty archive sums to zero, not NULL.
	compressed, err := idx.GetTotalCompressedSize(ctx)
	if err != nil {
		t.Fatalf("GetTotalCompressedSize() failed: %v", err)
	}
	uncompressed, err := idx.GetTotalUncompressedSize(ctx)
	if err != nil {
		t.Fatalf("GetTotalUncompressedSize() failed: %v", err)
	}
	if compressed != 0 || uncompressed != 0 {
		t.Errorf("empty sums = %d/%d, want 0/0", compressed, uncompressed)
	}

	a, _ := idx.CreateResource(ctx, "a", ResourceInstance)
	b, _ := idx.CreateResource(ctx, "b", ResourceInstance)
	if err := idx.AddAttachment(ctx, a, testAttachment("blob-a")); err != nil {
		t.Fatalf("AddAttachment() failed: %v", err)
	}
	if err := idx.AddAttachment(ctx, b, testAttachment("blob-b")); err != nil {
		t.Fatalf("AddAttachment() failed: %v", err)
	}

	compressed, err = idx.GetTotalCompressedSize(ctx)
	if err != nil {
		t.Fatalf("GetTotalCompressedSize() failed: %v", err)
	}
	uncompressed, err = idx.GetTotalUncompressedSize(ctx)
	if err != nil {
		t.Fatalf("GetTotalUncompressedSize() failed: %v", err)
	}
	if compressed != 128 || uncompressed != 256 {
		t.Errorf("sums = %d/%d, want 128/256", compressed, uncompressed)
	}
}
