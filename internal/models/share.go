package models

import "time"

type Share struct {
	ID         int64     `json:"id" db:"id"`
	FileID     int64     `json:"file_id" db:"file_id"`
	ShareID    string    `json:"share_id" db:"share_id"`
	IsEnabled  bool      `json:"is_enabled" db:"is_enabled"`
	VisitCount int64     `json:"visit_count" db:"visit_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PublicShare is what an anonymous visitor may learn about an enabled share.
type PublicShare struct {
	ShareID    string    `json:"share_id"`
	FileID     int64     `json:"file_id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	VisitCount int64     `json:"visit_count"`
	Owner      string    `json:"owner"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	UserID     int64  `json:"-"`
	StorageKey string `json:"-"`
}
