package database

import (
	"context"
	"errors"

	"svgshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrShareAlreadyExists = errors.New("file already has a share")

const shareColumns = `id, file_id, share_id, is_enabled, visit_count, created_at`

func scanShare(row pgx.Row, share *models.Share) error {
	return row.Scan(
		&share.ID,
		&share.FileID,
		&share.ShareID,
		&share.IsEnabled,
		&share.VisitCount,
		&share.CreatedAt,
	)
}

func (q *Queries) GetShareByFileID(ctx context.Context, fileID int64) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE file_id = $1`

	var share models.Share
	if err := scanShare(q.db.QueryRow(ctx, query, fileID), &share); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &share, nil
}

type CreateShareParams struct {
	FileID    int64
	ShareID   string
	IsEnabled bool
}

func (q *Queries) CreateShare(ctx context.Context, arg CreateShareParams) (*models.Share, error) {
	query := `
		INSERT INTO shares (file_id, share_id, is_enabled)
		VALUES ($1, $2, $3)
		RETURNING ` + shareColumns

	var share models.Share
	if err := scanShare(q.db.QueryRow(ctx, query, arg.FileID, arg.ShareID, arg.IsEnabled), &share); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrShareAlreadyExists
		}
		return nil, err
	}
	return &share, nil
}

func (q *Queries) SetShareEnabled(ctx context.Context, fileID int64, enabled bool) (*models.Share, error) {
	query := `UPDATE shares SET is_enabled = $1 WHERE file_id = $2 RETURNING ` + shareColumns

	var share models.Share
	if err := scanShare(q.db.QueryRow(ctx, query, enabled, fileID), &share); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &share, nil
}

// GetPublicShare resolves a share token to the file behind it. Disabled and
// unknown tokens both yield nil.
func (q *Queries) GetPublicShare(ctx context.Context, shareID string) (*models.PublicShare, error) {
	query := `
		SELECT s.share_id, f.id, f.filename, f.size, f.width, f.height, s.visit_count,
			u.username, f.created_at, f.updated_at, f.user_id, f.storage_key
		FROM shares s
		JOIN files f ON f.id = s.file_id
		JOIN users u ON u.id = f.user_id
		WHERE s.share_id = $1 AND s.is_enabled
	`
	var ps models.PublicShare
	err := q.db.QueryRow(ctx, query, shareID).Scan(
		&ps.ShareID,
		&ps.FileID,
		&ps.Filename,
		&ps.Size,
		&ps.Width,
		&ps.Height,
		&ps.VisitCount,
		&ps.Owner,
		&ps.CreatedAt,
		&ps.UpdatedAt,
		&ps.UserID,
		&ps.StorageKey,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ps, nil
}

func (q *Queries) IncrementVisitCount(ctx context.Context, shareID string) error {
	query := `UPDATE shares SET visit_count = visit_count + 1 WHERE share_id = $1`
	_, err := q.db.Exec(ctx, query, shareID)
	return err
}

type UpsertShareParams struct {
	FileID int64
	// NewShareID is used only when the file has no share yet.
	NewShareID string
	// Enable sets the state explicitly; nil toggles an existing share and
	// enables a new one.
	Enable *bool
}

// UpsertShare creates the share for a file on first use and sets or toggles
// it afterwards. The returned bool reports whether a row was created.
func (s *Store) UpsertShare(ctx context.Context, arg UpsertShareParams) (*models.Share, bool, error) {
	var share *models.Share
	var created bool

	err := s.ExecTx(ctx, func(q *Queries) error {
		existing, err := q.getShareForUpdate(ctx, arg.FileID)
		if err != nil {
			return err
		}

		if existing == nil {
			enabled := true
			if arg.Enable != nil {
				enabled = *arg.Enable
			}
			share, err = q.CreateShare(ctx, CreateShareParams{
				FileID:    arg.FileID,
				ShareID:   arg.NewShareID,
				IsEnabled: enabled,
			})
			created = err == nil
			return err
		}

		enabled := !existing.IsEnabled
		if arg.Enable != nil {
			enabled = *arg.Enable
		}
		share, err = q.SetShareEnabled(ctx, arg.FileID, enabled)
		return err
	})
	if errors.Is(err, ErrShareAlreadyExists) {
		share, err = s.resolveShareRace(ctx, arg)
		return share, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return share, created, nil
}

// resolveShareRace handles a share created by a concurrent request between
// our lookup and insert. An explicit state is applied to the winner's row;
// otherwise both callers end up with the share the winner created.
func (s *Store) resolveShareRace(ctx context.Context, arg UpsertShareParams) (*models.Share, error) {
	var share *models.Share
	var err error
	if arg.Enable != nil {
		share, err = s.SetShareEnabled(ctx, arg.FileID, *arg.Enable)
	} else {
		share, err = s.GetShareByFileID(ctx, arg.FileID)
	}
	if err != nil {
		return nil, err
	}
	// The conflict was on the token itself, not on the file.
	if share == nil {
		return nil, ErrShareAlreadyExists
	}
	return share, nil
}

func (q *Queries) getShareForUpdate(ctx context.Context, fileID int64) (*models.Share, error) {
	query := `SELECT ` + shareColumns + ` FROM shares WHERE file_id = $1 FOR UPDATE`

	var share models.Share
	if err := scanShare(q.db.QueryRow(ctx, query, fileID), &share); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &share, nil
}
