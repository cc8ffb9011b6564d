package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusEnded      TicketStatus = "ENDED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"

	// TicketStatusUnknown marks wire statuses the client does not
	// recognize. Tickets carrying it belong to no bucket.
	TicketStatusUnknown TicketStatus = ""
)

// IsClosedFamily reports whether the status terminates the ticket lifecycle.
func (s TicketStatus) IsClosedFamily() bool {
	switch s {
	case TicketStatusResolved, TicketStatusClosed, TicketStatusEnded, TicketStatusCancelled:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Ticket is the canonical client-side view of a support request. Wire
// payloads with dual-named or localized fields are mapped into this shape
// at the transport boundary and never travel further.
//
// Invariant: ClosedAt is non-nil iff Status is in the closed family.
type Ticket struct {
	ID          int64
	Number      string
	Description string
	Category    *Category
	Problem     *ProblemType
	Priority    TicketPriority
	Status      TicketStatus
	Requester   *User
	Assignee    *User
	OpenedAt    time.Time
	ClosedAt    *time.Time
	Solution    *string
	Attachments []Attachment
	History     []HistoryEntry
	Reopened    bool

	// SLADeadline is derived locally from OpenedAt and Priority; the
	// server does not persist it.
	SLADeadline time.Time
}
