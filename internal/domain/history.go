package domain

import "time"

// HistoryEntry is an immutable audit trail record on a ticket. Entries are
// append-only and ordered chronologically by insertion.
type HistoryEntry struct {
	ID        int64
	Actor     string
	Action    string
	Comment   string
	Timestamp time.Time
}
