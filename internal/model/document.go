package model

import "time"

// Document represents one stored upload: the user-facing metadata plus
// the internal key locating its bytes in blob storage.
//
// ID is assigned by the database on insert and is monotonically increasing.
// StorageKey never leaves the service; it is excluded from JSON so API
// responses expose only display metadata.
type Document struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"-"`
	Size       int64     `json:"filesize"`
	CreatedAt  time.Time `json:"created_at"`
}
