package cli

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/helixpacs/pacsindex/internal/index"
)

// Stats summarizes one index for the stats command.
type Stats struct {
	Patients          uint64
	Studies           uint64
	Series            uint64
	Instances         uint64
	CompressedBytes   uint64
	UncompressedBytes uint64
	RecyclingDepth    int64
}

// writeStats prints the summary with grouped digits.
func writeStats(w io.Writer, s Stats) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Patients:          %d\n", s.Patients)
	p.Fprintf(w, "Studies:           %d\n", s.Studies)
	p.Fprintf(w, "Series:            %d\n", s.Series)
	p.Fprintf(w, "Instances:         %d\n", s.Instances)
	p.Fprintf(w, "Stored bytes:      %d (%d uncompressed)\n", s.CompressedBytes, s.UncompressedBytes)
	p.Fprintf(w, "Recycling queue:   %d unprotected patients\n", s.RecyclingDepth)
}

// writeChanges prints one tab-separated line per change, then a
// trailer telling the caller whether the log was exhausted.
func writeChanges(w io.Writer, changes []index.Change, done bool) {
	for _, c := range changes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			c.Seq, c.ChangeType, c.ResourceType, c.PublicID, c.Date)
	}
	if done {
		fmt.Fprintln(w, "(end of changes)")
	} else {
		fmt.Fprintf(w, "(more changes, resume with --since %d)\n", changes[len(changes)-1].Seq)
	}
}

// writeExports prints one tab-separated line per export record, then
// the same trailer as writeChanges.
func writeExports(w io.Writer, exported []index.ExportedResource, done bool) {
	for _, e := range exported {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.Seq, e.ResourceType, e.PublicID, e.Modality, e.Date)
	}
	if done {
		fmt.Fprintln(w, "(end of exports)")
	} else {
		fmt.Fprintf(w, "(more exports, resume with --since %d)\n", exported[len(exported)-1].Seq)
	}
}

// DeleteReport tallies the signals of one deletion.
type DeleteReport struct {
	Resources    int
	Files        int
	AncestorType index.ResourceType
	AncestorID   string
	HasAncestor  bool
}

// writeDeleteReport prints the deletion summary.
func writeDeleteReport(w io.Writer, r DeleteReport) {
	fmt.Fprintf(w, "deleted resources:   %d\n", r.Resources)
	fmt.Fprintf(w, "removed attachments: %d\n", r.Files)
	if r.HasAncestor {
		fmt.Fprintf(w, "remaining ancestor:  %s %s\n", r.AncestorType, r.AncestorID)
	} else {
		fmt.Fprintln(w, "remaining ancestor:  none")
	}
}
