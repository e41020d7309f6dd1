// internal/storage/file_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campustrade/campustrade-api/internal/core"
	"github.com/campustrade/campustrade-api/internal/domain"
)

var ErrFileNotFound = errors.New("file not found")

// FileSortColumns are the columns ListFileRecords may sort by. The first is the default.
var FileSortColumns = []string{"created_at", "size", "original_name"}

const fileColumns = `id, owner_id, original_name, relative_path, url, thumbnail_path, thumbnail_url, content_type, size, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*domain.StoredFile, error) {
	var f domain.StoredFile
	err := row.Scan(&f.ID, &f.OwnerID, &f.OriginalName, &f.RelativePath, &f.URL,
		&f.ThumbnailPath, &f.ThumbnailURL, &f.ContentType, &f.Size, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateFileRecord stores metadata for an uploaded file.
func CreateFileRecord(ctx context.Context, db *sql.DB, f *domain.StoredFile) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO files (id, owner_id, original_name, relative_path, url, thumbnail_path, thumbnail_url, content_type, size) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.OriginalName, f.RelativePath, f.URL, f.ThumbnailPath, f.ThumbnailURL, f.ContentType, f.Size)
	if err != nil {
		customLog.Warnf("Storage: Failed to insert file record %s: %v", f.RelativePath, err)
		return fmt.Errorf("database error saving file record: %w", err)
	}
	return nil
}

// FindFileRecord returns the file with the given id owned by ownerID.
func FindFileRecord(ctx context.Context, db *sql.DB, ownerID, fileID string) (*domain.StoredFile, error) {
	row := db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ? AND owner_id = ? LIMIT 1`, fileID, ownerID)
	f, err := scanFile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		customLog.Warnf("Storage: Failed to find file %s: %v", fileID, err)
		return nil, fmt.Errorf("database error finding file: %w", err)
	}
	return f, nil
}

// ListFileRecords lists the files of an owner. opts.SortBy must come from
// FileSortColumns; core.ParseListQueryOptions guarantees that.
func ListFileRecords(ctx context.Context, db *sql.DB, ownerID string, opts *core.ListQueryOptions) ([]domain.StoredFile, error) {
	sortBy := FileSortColumns[0]
	for _, c := range FileSortColumns {
		if c == opts.SortBy {
			sortBy = c
		}
	}
	order := "DESC"
	if opts.SortOrder == "asc" {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM files WHERE owner_id = ? ORDER BY %s %s, id ASC LIMIT ? OFFSET ?`, fileColumns, sortBy, order)
	rows, err := db.QueryContext(ctx, query, ownerID, opts.Limit, opts.Offset)
	if err != nil {
		customLog.Warnf("Storage: Failed to list files for %s: %v", ownerID, err)
		return nil, fmt.Errorf("database error listing files: %w", err)
	}
	defer rows.Close()

	files := []domain.StoredFile{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("database error scanning file: %w", err)
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating files: %w", err)
	}
	return files, nil
}

// DeleteFileRecord removes a file record owned by ownerID.
func DeleteFileRecord(ctx context.Context, db *sql.DB, ownerID, fileID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM files WHERE id = ? AND owner_id = ?`, fileID, ownerID)
	if err != nil {
		customLog.Warnf("Storage: Failed to delete file %s: %v", fileID, err)
		return fmt.Errorf("database error deleting file: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("database error deleting file: %w", err)
	}
	if n == 0 {
		return ErrFileNotFound
	}
	return nil
}
