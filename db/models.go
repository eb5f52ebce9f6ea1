package db

import (
	"time"

	"gorm.io/gorm"
)

// FetchAttempt is one request made while loading the index.
type FetchAttempt struct {
	gorm.Model
	Tier       string `gorm:"index"` // "local" or "remote"
	URL        string
	StatusCode int    // 0 when no response arrived
	Records    int    // blueprints in the document, on success
	Error      string // empty on success
	DurationMS int64
	AttemptAt  time.Time `gorm:"index"`
}

// Succeeded reports whether the attempt produced a usable index.
func (a FetchAttempt) Succeeded() bool {
	return a.Error == ""
}
