package models

import "time"

// SyncMeta is a per-user sync bookmark. Login touches it; nothing reads
// it yet.
type SyncMeta struct {
	UserID       string     `gorm:"type:uuid;primaryKey" json:"user_id"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	SyncToken    string     `json:"sync_token,omitempty"`
}
