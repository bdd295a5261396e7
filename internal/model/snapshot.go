package model

import "time"

// Snapshot is the last order state fetched from the marketplace for one
// viewer.
type Snapshot struct {
	ViewerID  string    `json:"viewerId"`
	Order     Order     `json:"order"`
	FetchedAt time.Time `json:"fetchedAt"`
}
