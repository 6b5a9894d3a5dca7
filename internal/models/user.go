package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusPending = "pending"
	StatusActive  = "active"
	StatusLocked  = "locked"

	DefaultStorageLimit int64 = 100 * 1024 * 1024
)

type User struct {
	ID           int64     `json:"id" db:"id"`
	GithubID     string    `json:"github_id" db:"github_id"`
	Username     string    `json:"username" db:"username"`
	AvatarURL    string    `json:"avatar_url" db:"avatar_url"`
	Role         string    `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	StorageLimit int64     `json:"storage_limit" db:"storage_limit"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserWithUsage is a user row together with the summed size of its files.
type UserWithUsage struct {
	User
	TotalStorageUsed int64 `json:"total_storage_used"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusLocked:
		return true
	}
	return false
}
