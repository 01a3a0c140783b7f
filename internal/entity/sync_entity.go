package entity

import "time"

// SyncState is the per-board indicator state surfaced by the status endpoint.
type SyncState struct {
	Loaded      bool       `json:"loaded"`
	Saving      bool       `json:"saving"`
	LastSavedAt *time.Time `json:"last_saved_at"`
}
