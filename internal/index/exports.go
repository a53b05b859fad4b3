package index

import (
	"context"
	"fmt"
)

// LogExportedResource appends one entry to the export log. Its
// sequence space is independent from the change log.
func (idx *Index) LogExportedResource(ctx context.Context, exported ExportedResource) error {
	if _, err := idx.db.ExecContext(ctx,
		"INSERT INTO ExportedResources VALUES(NULL, ?, ?, ?, ?, ?, ?, ?, ?)",
		exported.ResourceType,
		exported.PublicID,
		exported.Modality,
		exported.PatientID,
		exported.StudyInstanceUID,
		exported.SeriesInstanceUID,
		exported.SOPInstanceUID,
		exported.Date,
	); err != nil {
		return fmt.Errorf("log exported resource: %w", err)
	}
	return nil
}

// GetExportedResources returns the export-log entries with sequence
// strictly greater than since, ascending, capped at maxResults; done
// follows the same protocol as GetChanges.
func (idx *Index) GetExportedResources(ctx context.Context, since int64, maxResults uint32) ([]ExportedResource, bool, error) {
	return idx.getExportedResources(ctx,
		"SELECT seq, resourceType, publicId, remoteModality, patientId, studyInstanceUid, seriesInstanceUid, sopInstanceUid, date FROM ExportedResources WHERE seq>? ORDER BY seq LIMIT ?",
		maxResults, since, maxResults+1)
}

// GetLastExportedResource returns the single most recent export-log
// entry, with ok=false on an empty log.
func (idx *Index) GetLastExportedResource(ctx context.Context) (ExportedResource, bool, error) {
	exported, _, err := idx.getExportedResources(ctx,
		"SELECT seq, resourceType, publicId, remoteModality, patientId, studyInstanceUid, seriesInstanceUid, sopInstanceUid, date FROM ExportedResources ORDER BY seq DESC LIMIT 1",
		1)
	if err != nil {
		return ExportedResource{}, false, err
	}
	if len(exported) == 0 {
		return ExportedResource{}, false, nil
	}
	return exported[0], true, nil
}

func (idx *Index) getExportedResources(ctx context.Context, query string, maxResults uint32, args ...any) ([]ExportedResource, bool, error) {
	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("query exported resources: %w", err)
	}
	defer rows.Close()

	exported := []ExportedResource{}
	for rows.Next() {
		var r ExportedResource
		if err := rows.Scan(&r.Seq, &r.ResourceType, &r.PublicID, &r.Modality,
			&r.PatientID, &r.StudyInstanceUID, &r.SeriesInstanceUID,
			&r.SOPInstanceUID, &r.Date); err != nil {
			return nil, false, fmt.Errorf("scan exported resource: %w", err)
		}
		exported = append(exported, r)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate exported resources: %w", err)
	}

	done := true
	if uint32(len(exported)) > maxResults {
		done = false
		exported = exported[:maxResults]
	}

	return exported, done, nil
}
