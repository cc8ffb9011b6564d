// Package sla derives service-level deadlines for tickets.
package sla

import (
	"time"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

// Offsets, in hours, from a ticket's opening to its SLA deadline.
const (
	hoursCritical = 2
	hoursHigh     = 8
	hoursMedium   = 24
	hoursLow      = 48

	// hoursDefault covers absent or unrecognized priorities. An
	// under-estimated SLA is worse than an over-generous one, so the
	// fallback matches the slowest tier.
	hoursDefault = 48
)

// ComputeDeadline maps an opening timestamp and priority to the time by
// which the ticket should be resolved. A zero openedAt means the ticket is
// still being drafted and the current time is used.
func ComputeDeadline(openedAt time.Time, priority domain.TicketPriority) time.Time {
	base := openedAt
	if base.IsZero() {
		base = time.Now()
	}

	hours := hoursDefault
	switch priority {
	case domain.TicketPriorityCritical:
		hours = hoursCritical
	case domain.TicketPriorityHigh:
		hours = hoursHigh
	case domain.TicketPriorityMedium:
		hours = hoursMedium
	case domain.TicketPriorityLow:
		hours = hoursLow
	}

	return base.Add(time.Duration(hours) * time.Hour)
}
