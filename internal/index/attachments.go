package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddAttachment stores an attachment record for a resource, replacing
// any previous record with the same content type. The attachment
// bytes themselves live in the blob store; only the reference and
// digests are kept here.
func (idx *Index) AddAttachment(ctx context.Context, id int64, attachment FileInfo) error {
	if _, err := idx.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO AttachedFiles VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		id,
		attachment.ContentType,
		attachment.UUID,
		attachment.CompressedSize,
		attachment.UncompressedSize,
		attachment.CompressionType,
		attachment.UncompressedMD5,
		attachment.CompressedMD5,
	); err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	return nil
}

// DeleteAttachment removes one attachment. The per-file deletion
// signal fires for the removed row, so the blob store learns about
// the reclaimable bytes; removing an absent attachment is a no-op.
func (idx *Index) DeleteAttachment(ctx context.Context, id int64, contentType FileContentType) error {
	idx.signals.reset()

	if _, err := idx.db.ExecContext(ctx,
		"DELETE FROM AttachedFiles WHERE id=? AND fileType=?",
		id, contentType,
	); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	return idx.drainDeleteSignals(ctx)
}

// LookupAttachment returns the attachment record for a (resource,
// content type) pair, with ok=false when absent.
func (idx *Index) LookupAttachment(ctx context.Context, id int64, contentType FileContentType) (FileInfo, bool, error) {
	var info FileInfo
	info.ContentType = contentType

	err := idx.db.QueryRowContext(ctx,
		`SELECT uuid, uncompressedSize, compressionType, compressedSize,
		        uncompressedMD5, compressedMD5
		 FROM AttachedFiles WHERE id=? AND fileType=?`,
		id, contentType,
	).Scan(
		&info.UUID,
		&info.UncompressedSize,
		&info.CompressionType,
		&info.CompressedSize,
		&info.UncompressedMD5,
		&info.CompressedMD5,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, fmt.Errorf("lookup attachment: %w", err)
	}
	return info, true, nil
}

// ListAvailableAttachments returns the content types attached to a
// resource.
func (idx *Index) ListAvailableAttachments(ctx context.Context, id int64) ([]FileContentType, error) {
	rows, err := idx.db.QueryContext(ctx,
		"SELECT fileType FROM AttachedFiles WHERE id=?", id)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	types := []FileContentType{}
	for rows.Next() {
		var t FileContentType
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan attachment type: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return types, nil
}

// GetTotalCompressedSize sums the stored size of every attachment.
func (idx *Index) GetTotalCompressedSize(ctx context.Context) (uint64, error) {
	return idx.sumAttachedFiles(ctx, "SELECT SUM(compressedSize) FROM AttachedFiles")
}

// GetTotalUncompressedSize sums the raw size of every attachment.
func (idx *Index) GetTotalUncompressedSize(ctx context.Context) (uint64, error) {
	return idx.sumAttachedFiles(ctx, "SELECT SUM(uncompressedSize) FROM AttachedFiles")
}

func (idx *Index) sumAttachedFiles(ctx context.Context, query string) (uint64, error) {
	var total sql.NullInt64
	if err := idx.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, errInternalf("sum attachments: %v", err)
	}
	if !total.Valid {
		return 0, nil
	}
	return uint64(total.Int64), nil
}
