package database

import (
	"context"
	"errors"

	"svgshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrOwnerNotFound = errors.New("file owner does not exist")

const fileColumns = `id, user_id, filename, size, storage_key, width, height, created_at, updated_at`

func scanFile(row pgx.Row, file *models.File, extra ...any) error {
	dest := []any{
		&file.ID,
		&file.UserID,
		&file.Filename,
		&file.Size,
		&file.StorageKey,
		&file.Width,
		&file.Height,
		&file.CreatedAt,
		&file.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

type CreateFileParams struct {
	UserID     int64
	Filename   string
	Size       int64
	StorageKey string
	Width      int
	Height     int
}

func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (*models.File, error) {
	query := `
		INSERT INTO files (user_id, filename, size, storage_key, width, height)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fileColumns

	var file models.File
	err := scanFile(q.db.QueryRow(ctx, query,
		arg.UserID, arg.Filename, arg.Size, arg.StorageKey, arg.Width, arg.Height,
	), &file)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}
	return &file, nil
}

// ListFilesByUser returns every file owned by userID, newest first, joined
// with its share state.
func (q *Queries) ListFilesByUser(ctx context.Context, userID int64) ([]models.FileWithShare, error) {
	query := `
		SELECT f.id, f.user_id, f.filename, f.size, f.storage_key, f.width, f.height, f.created_at, f.updated_at,
			COALESCE(s.is_enabled, FALSE),
			s.share_id,
			COALESCE(s.visit_count, 0)
		FROM files f
		LEFT JOIN shares s ON s.file_id = f.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.FileWithShare
	for rows.Next() {
		var f models.FileWithShare
		if err := scanFile(rows, &f.File, &f.ShareEnabled, &f.ShareID, &f.VisitCount); err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if files == nil {
		return []models.FileWithShare{}, nil
	}

	return files, nil
}

// GetFileByID returns nil when the file does not exist or belongs to someone
// other than ownerID.
func (q *Queries) GetFileByID(ctx context.Context, id, ownerID int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	var file models.File
	if err := scanFile(q.db.QueryRow(ctx, query, id, ownerID), &file); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

func (q *Queries) RenameFile(ctx context.Context, id, ownerID int64, filename string) (*models.File, error) {
	query := `
		UPDATE files SET filename = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + fileColumns

	var file models.File
	if err := scanFile(q.db.QueryRow(ctx, query, filename, id, ownerID), &file); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

type UpdateFileContentParams struct {
	ID      int64
	OwnerID int64
	Size    int64
	Width   int
	Height  int
}

func (q *Queries) UpdateFileContent(ctx context.Context, arg UpdateFileContentParams) (*models.File, error) {
	query := `
		UPDATE files SET size = $1, width = $2, height = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + fileColumns

	var file models.File
	err := scanFile(q.db.QueryRow(ctx, query,
		arg.Size, arg.Width, arg.Height, arg.ID, arg.OwnerID,
	), &file)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes the row and, through the foreign key, its share. It
// reports whether a row owned by ownerID was deleted.
func (q *Queries) DeleteFile(ctx context.Context, id, ownerID int64) (bool, error) {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2`
	tag, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
