package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged      EventType = "session_changed"
	EventBucketsUpdated      EventType = "buckets_updated"
	EventMineUpdated         EventType = "mine_updated"
	EventActiveTicketChanged EventType = "active_ticket_changed"
	EventReferenceUpdated    EventType = "reference_updated"
)

// Event is a notification emitted by the ticket store so that consumers
// (UI layers, loggers) can react to state changes without polling.
type Event struct {
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticket_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// BucketCounts is the payload of buckets_updated and mine_updated. It lets
// subscribers render badge counters without retaining the ticket slices.
// mine_updated folds in-progress tickets into Open.
type BucketCounts struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Closed     int `json:"closed"`
}
