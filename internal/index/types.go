package index

import "fmt"

// ResourceType is the level of a resource in the four-level clinical
// hierarchy. Values are persisted; smaller values are closer to the
// top of the tree.
type ResourceType int

const (
	ResourcePatient  ResourceType = 1
	ResourceStudy    ResourceType = 2
	ResourceSeries   ResourceType = 3
	ResourceInstance ResourceType = 4
)

// String implements fmt.Stringer.
func (t ResourceType) String() string {
	switch t {
	case ResourcePatient:
		return "Patient"
	case ResourceStudy:
		return "Study"
	case ResourceSeries:
		return "Series"
	case ResourceInstance:
		return "Instance"
	default:
		return fmt.Sprintf("ResourceType(%d)", int(t))
	}
}

// ChangeType categorizes entries of the change log. Values are
// persisted.
type ChangeType int

const (
	ChangeCompletedSeries  ChangeType = 1
	ChangeDeleted          ChangeType = 2
	ChangeNewChildInstance ChangeType = 3
	ChangeNewInstance      ChangeType = 4
	ChangeNewPatient       ChangeType = 5
	ChangeNewSeries        ChangeType = 6
	ChangeNewStudy         ChangeType = 7
	ChangeStablePatient    ChangeType = 8
	ChangeStableSeries     ChangeType = 9
	ChangeStableStudy      ChangeType = 10
)

// String implements fmt.Stringer.
func (t ChangeType) String() string {
	switch t {
	case ChangeCompletedSeries:
		return "CompletedSeries"
	case ChangeDeleted:
		return "Deleted"
	case ChangeNewChildInstance:
		return "NewChildInstance"
	case ChangeNewInstance:
		return "NewInstance"
	case ChangeNewPatient:
		return "NewPatient"
	case ChangeNewSeries:
		return "NewSeries"
	case ChangeNewStudy:
		return "NewStudy"
	case ChangeStablePatient:
		return "StablePatient"
	case ChangeStableSeries:
		return "StableSeries"
	case ChangeStableStudy:
		return "StableStudy"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// MetadataType keys a metadata value attached to a resource. Values
// are persisted.
type MetadataType int

const (
	MetadataIndexInSeries             MetadataType = 1
	MetadataReceptionDate             MetadataType = 2
	MetadataRemoteAET                 MetadataType = 3
	MetadataExpectedNumberOfInstances MetadataType = 4
	MetadataModifiedFrom              MetadataType = 5
	MetadataAnonymizedFrom            MetadataType = 6
	MetadataLastUpdate                MetadataType = 7
)

// FileContentType is the kind of binary content an attachment refers
// to. At most one attachment exists per (resource, content type).
type FileContentType int

const (
	FileContentDicom       FileContentType = 1
	FileContentDicomAsJSON FileContentType = 2
)

// CompressionType describes how attachment bytes are stored in the
// blob store.
type CompressionType int

const (
	CompressionNone CompressionType = 1
	CompressionZlib CompressionType = 2
)

// GlobalProperty keys a persistent server-wide setting.
type GlobalProperty int

const (
	GlobalPropertyDatabaseSchemaVersion GlobalProperty = 1
	GlobalPropertyFlushSleep            GlobalProperty = 2
	GlobalPropertyAnonymizationSequence GlobalProperty = 3
)

// FileInfo is the full record of one attachment: the content id
// addressing the bytes in the blob store, sizes and digests for both
// the raw and the stored representation.
type FileInfo struct {
	UUID             string
	ContentType      FileContentType
	UncompressedSize uint64
	UncompressedMD5  string
	CompressionType  CompressionType
	CompressedSize   uint64
	CompressedMD5    string
}

// Change is one entry of the change log. PublicID is resolved at read
// time, not at write time.
type Change struct {
	Seq          int64
	ChangeType   ChangeType
	ResourceType ResourceType
	PublicID     string
	Date         string
}

// ExportedResource is one entry of the export log.
type ExportedResource struct {
	Seq               int64
	ResourceType      ResourceType
	PublicID          string
	Modality          string
	Date              string
	PatientID         string
	StudyInstanceUID  string
	SeriesInstanceUID string
	SOPInstanceUID    string
}

// Listener receives the side effects of cascading deletions. All
// callbacks run synchronously, strictly before the triggering index
// call returns.
type Listener interface {
	// SignalFileDeleted reports one physically removed attachment so
	// the blob store can reclaim its bytes.
	SignalFileDeleted(info FileInfo)

	// SignalChange reports a change event; during deletions this is
	// one Deleted change per removed resource.
	SignalChange(change Change)

	// SignalRemainingAncestor reports the topmost surviving ancestor
	// whose subtree lost a member, at most once per deletion.
	SignalRemainingAncestor(resourceType ResourceType, publicID string)
}
