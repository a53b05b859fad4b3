// Package dicom holds the minimal DICOM tag model needed by the
// resource index: (group, element) pairs and the static classification
// of identifier tags used for cross-resource lookup.
package dicom

import "fmt"

// Tag identifies a DICOM data element by its (group, element) pair.
type Tag struct {
	Group   uint16
	Element uint16
}

// Well-known tags stored by the index.
var (
	TagPatientID         = Tag{0x0010, 0x0020}
	TagPatientName       = Tag{0x0010, 0x0010}
	TagPatientBirthDate  = Tag{0x0010, 0x0030}
	TagPatientSex        = Tag{0x0010, 0x0040}
	TagAccessionNumber   = Tag{0x0008, 0x0050}
	TagStudyDate         = Tag{0x0008, 0x0020}
	TagStudyDescription  = Tag{0x0008, 0x1030}
	TagStudyInstanceUID  = Tag{0x0020, 0x000d}
	TagModality          = Tag{0x0008, 0x0060}
	TagSeriesDescription = Tag{0x0008, 0x103e}
	TagSeriesInstanceUID = Tag{0x0020, 0x000e}
	TagSOPInstanceUID    = Tag{0x0008, 0x0018}
	TagInstanceNumber    = Tag{0x0020, 0x0013}
)

// identifierTags is the fixed subset of tags that participate in
// cross-resource identifier lookups. A tag is routed to exactly one
// physical table based on this classification; callers cannot
// override the routing per call.
var identifierTags = map[Tag]struct{}{
	TagPatientID:         {},
	TagStudyInstanceUID:  {},
	TagSeriesInstanceUID: {},
	TagSOPInstanceUID:    {},
	TagAccessionNumber:   {},
}

// IsIdentifier reports whether the tag belongs to the identifier set.
func (t Tag) IsIdentifier() bool {
	_, ok := identifierTags[t]
	return ok
}

// String formats the tag in the conventional "gggg,eeee" notation.
func (t Tag) String() string {
	return fmt.Sprintf("%04x,%04x", t.Group, t.Element)
}
