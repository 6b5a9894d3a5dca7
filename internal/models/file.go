package models

import "time"

type File struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Filename   string    `json:"filename" db:"filename"`
	Size       int64     `json:"size" db:"size"`
	StorageKey string    `json:"-" db:"storage_key"`
	Width      int       `json:"width" db:"width"`
	Height     int       `json:"height" db:"height"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FileWithShare is the dashboard listing row: a file plus the state of its
// share, if one was ever created.
type FileWithShare struct {
	File
	ShareEnabled bool    `json:"share_enabled"`
	ShareID      *string `json:"share_id"`
	VisitCount   int64   `json:"visit_count"`
}
