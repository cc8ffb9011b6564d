// Package classify partitions ticket collections into the named buckets
// the UI presents. All functions are pure: inputs are never mutated and
// every call produces fresh slices, so a new classification fully
// replaces the previous one and a ticket can never linger in two buckets
// across refreshes.
package classify

import (
	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// Buckets holds the staff-facing partition of the full ticket collection.
type Buckets struct {
	Open       []domain.Ticket
	InProgress []domain.Ticket
	Closed     []domain.Ticket
}

// MineBuckets holds the end-user partition of the user-scoped collection.
// Membership is determined purely by the caller having fetched the
// user-scoped endpoint, not by client-side ownership filtering.
type MineBuckets struct {
	Open   []domain.Ticket
	Closed []domain.Ticket
}

// Classify partitions tickets by status for the given identity. Tickets
// with an unrecognized status appear in no bucket. For technician
// identities the InProgress bucket is narrowed to tickets assigned to the
// caller, matched by normalized login or normalized display name (server
// data may populate only one reliably); every other role sees the full
// InProgress set.
func Classify(tickets []domain.Ticket, identity domain.Identity) Buckets {
	buckets := Buckets{
		Open:       make([]domain.Ticket, 0, len(tickets)),
		InProgress: make([]domain.Ticket, 0, len(tickets)),
		Closed:     make([]domain.Ticket, 0, len(tickets)),
	}

	for _, t := range tickets {
		switch {
		case t.Status == domain.TicketStatusOpen:
			buckets.Open = append(buckets.Open, t)
		case t.Status == domain.TicketStatusInProgress:
			buckets.InProgress = append(buckets.InProgress, t)
		case t.Status.IsClosedFamily():
			buckets.Closed = append(buckets.Closed, t)
		}
	}

	if identity.IsTechnician() {
		buckets.InProgress = filterAssigned(buckets.InProgress, identity)
	}

	return buckets
}

// ClassifyMine partitions the user-scoped collection into open and closed
// views. InProgress counts as open from the requester's perspective.
func ClassifyMine(tickets []domain.Ticket) MineBuckets {
	buckets := MineBuckets{
		Open:   make([]domain.Ticket, 0, len(tickets)),
		Closed: make([]domain.Ticket, 0, len(tickets)),
	}

	for _, t := range tickets {
		switch {
		case t.Status == domain.TicketStatusOpen, t.Status == domain.TicketStatusInProgress:
			buckets.Open = append(buckets.Open, t)
		case t.Status.IsClosedFamily():
			buckets.Closed = append(buckets.Closed, t)
		}
	}

	return buckets
}

func filterAssigned(tickets []domain.Ticket, identity domain.Identity) []domain.Ticket {
	login := domain.Normalize(identity.Login)
	name := domain.Normalize(identity.Name)

	assigned := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Assignee == nil {
			continue
		}
		techLogin := domain.Normalize(t.Assignee.Login)
		techName := domain.Normalize(t.Assignee.Name)
		if techLogin == login || techName == name {
			assigned = append(assigned, t)
		}
	}
	return assigned
}
