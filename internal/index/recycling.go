package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SelectPatientToRecycle returns the oldest-inserted eviction-eligible
// patient, with ok=false when the recycling queue is empty or every
// patient is protected.
func (idx *Index) SelectPatientToRecycle(ctx context.Context) (int64, bool, error) {
	return idx.selectPatientToRecycle(ctx,
		"SELECT patientId FROM PatientRecyclingOrder ORDER BY seq ASC LIMIT 1")
}

// SelectPatientToRecycleAvoiding behaves like SelectPatientToRecycle
// but skips one patient, typically the one about to receive new data.
func (idx *Index) SelectPatientToRecycleAvoiding(ctx context.Context, patientToAvoid int64) (int64, bool, error) {
	return idx.selectPatientToRecycle(ctx,
		`SELECT patientId FROM PatientRecyclingOrder
		 WHERE patientId != ? ORDER BY seq ASC LIMIT 1`, patientToAvoid)
}

func (idx *Index) selectPatientToRecycle(ctx context.Context, query string, args ...any) (int64, bool, error) {
	var id int64
	err := idx.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("select patient to recycle: %w", err)
	}
	return id, true, nil
}

// IsProtectedPatient reports whether the patient has no entry in the
// recycling queue. Protected patients are never auto-evicted.
func (idx *Index) IsProtectedPatient(ctx context.Context, id int64) (bool, error) {
	var seq int64
	err := idx.db.QueryRowContext(ctx,
		"SELECT seq FROM PatientRecyclingOrder WHERE patientId = ?", id,
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check protected patient: %w", err)
	}
	return false, nil
}

// SetProtectedPatient toggles eviction eligibility. Protecting removes
// any queue entry; unprotecting inserts one only if none exists, so a
// protect/unprotect cycle does not reset the patient's position among
// never-removed entries. Both directions are idempotent.
func (idx *Index) SetProtectedPatient(ctx context.Context, id int64, protect bool) error {
	if protect {
		if _, err := idx.db.ExecContext(ctx,
			"DELETE FROM PatientRecyclingOrder WHERE patientId=?", id,
		); err != nil {
			return fmt.Errorf("protect patient: %w", err)
		}
		return nil
	}

	protected, err := idx.IsProtectedPatient(ctx, id)
	if err != nil {
		return err
	}
	if !protected {
		// Already eligible, keep its original queue position.
		return nil
	}

	if _, err := idx.db.ExecContext(ctx,
		"INSERT INTO PatientRecyclingOrder VALUES(NULL, ?)", id,
	); err != nil {
		return fmt.Errorf("unprotect patient: %w", err)
	}
	return nil
}
