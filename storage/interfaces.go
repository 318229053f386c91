package storage

import "tiktok-scraper/models"

// SnapshotWriter is the interface any storage backend must satisfy.
type SnapshotWriter interface {
	WritePosts(posts []*models.PostSnapshot) error
	WriteAccounts(accounts []*models.AccountSnapshot) error
	Close() error
}

// RawSnapshotWriter is the interface for persisting unprocessed scraped data.
type RawSnapshotWriter interface {
	WriteRaw(posts []*models.PostSnapshot) error
	Close() error
}
