package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"svgshare/internal/models"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, github_id, username, avatar_url, role, status, storage_limit, created_at`

func scanUser(row pgx.Row, user *models.User, extra ...any) error {
	dest := []any{
		&user.ID,
		&user.GithubID,
		&user.Username,
		&user.AvatarURL,
		&user.Role,
		&user.Status,
		&user.StorageLimit,
		&user.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	if err := scanUser(q.db.QueryRow(ctx, query, id), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserByGithubID(ctx context.Context, githubID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE github_id = $1`

	var user models.User
	if err := scanUser(q.db.QueryRow(ctx, query, githubID), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetUserWithUsage(ctx context.Context, id int64) (*models.UserWithUsage, error) {
	query := `
		SELECT ` + userColumns + `,
			COALESCE((SELECT SUM(f.size) FROM files f WHERE f.user_id = users.id), 0)
		FROM users
		WHERE id = $1
	`
	var user models.UserWithUsage
	if err := scanUser(q.db.QueryRow(ctx, query, id), &user.User, &user.TotalStorageUsed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserParams struct {
	GithubID     string
	Username     string
	AvatarURL    string
	Role         string
	Status       string
	StorageLimit int64
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (*models.User, error) {
	if !models.ValidRole(arg.Role) {
		return nil, ErrInvalidRole
	}
	if !models.ValidStatus(arg.Status) {
		return nil, ErrInvalidStatus
	}
	if arg.StorageLimit <= 0 {
		arg.StorageLimit = models.DefaultStorageLimit
	}

	query := `
		INSERT INTO users (github_id, username, avatar_url, role, status, storage_limit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	var user models.User
	err := scanUser(q.db.QueryRow(ctx, query,
		arg.GithubID, arg.Username, arg.AvatarURL, arg.Role, arg.Status, arg.StorageLimit,
	), &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateUser returns the user bound to arg.GithubID, inserting it on
// first sight. A concurrent first login for the same account resolves to the
// row that won the insert.
func (q *Queries) GetOrCreateUser(ctx context.Context, arg CreateUserParams) (*models.User, bool, error) {
	user, err := q.GetUserByGithubID(ctx, arg.GithubID)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}

	user, err = q.CreateUser(ctx, arg)
	if err != nil {
		if isUniqueViolation(err) {
			user, err = q.GetUserByGithubID(ctx, arg.GithubID)
			return user, false, err
		}
		return nil, false, err
	}
	return user, true, nil
}

type ListUsersParams struct {
	Role   string
	Status string
	Search string
	Page   int
	Limit  int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize applies the default page and clamps the limit.
func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListUsers returns one page of users, newest first, and the number of rows
// matching the same filters without pagination.
func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]models.UserWithUsage, int64, error) {
	arg.Normalize()

	if arg.Role != "" && !models.ValidRole(arg.Role) {
		return nil, 0, ErrInvalidRole
	}
	if arg.Status != "" && !models.ValidStatus(arg.Status) {
		return nil, 0, ErrInvalidStatus
	}

	var conds []string
	var args []any
	if arg.Role != "" {
		args = append(args, arg.Role)
		conds = append(conds, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if arg.Status != "" {
		args = append(args, arg.Status)
		conds = append(conds, fmt.Sprintf("u.status = $%d", len(args)))
	}
	if search := strings.TrimSpace(arg.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		conds = append(conds, fmt.Sprintf("u.username ILIKE $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM users u ` + where
	if err := q.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(args, arg.Limit, (arg.Page-1)*arg.Limit)
	query := fmt.Sprintf(`
		SELECT u.id, u.github_id, u.username, u.avatar_url, u.role, u.status, u.storage_limit, u.created_at,
			COALESCE((SELECT SUM(f.size) FROM files f WHERE f.user_id = u.id), 0)
		FROM users u
		%s
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := q.db.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []models.UserWithUsage
	for rows.Next() {
		var user models.UserWithUsage
		if err := scanUser(rows, &user.User, &user.TotalStorageUsed); err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	if users == nil {
		return []models.UserWithUsage{}, total, nil
	}

	return users, total, nil
}

func (q *Queries) UpdateUserStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	query := `UPDATE users SET status = $1 WHERE id = $2 RETURNING ` + userColumns

	var user models.User
	if err := scanUser(q.db.QueryRow(ctx, query, status, id), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) UpdateUserQuota(ctx context.Context, id int64, limit int64) (*models.User, error) {
	if limit < 0 {
		return nil, ErrInvalidQuota
	}

	query := `UPDATE users SET storage_limit = $1 WHERE id = $2 RETURNING ` + userColumns

	var user models.User
	if err := scanUser(q.db.QueryRow(ctx, query, limit, id), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) GetStorageUsed(ctx context.Context, userID int64) (int64, error) {
	var used int64
	query := `SELECT COALESCE(SUM(size), 0) FROM files WHERE user_id = $1`
	err := q.db.QueryRow(ctx, query, userID).Scan(&used)
	return used, err
}
