package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

func TestComputeDeadline(t *testing.T) {
	opened := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		priority domain.TicketPriority
		want     time.Time
	}{
		{"critical", domain.TicketPriorityCritical, opened.Add(2 * time.Hour)},
		{"high", domain.TicketPriorityHigh, opened.Add(8 * time.Hour)},
		{"medium", domain.TicketPriorityMedium, opened.Add(24 * time.Hour)},
		{"low", domain.TicketPriorityLow, opened.Add(48 * time.Hour)},
		{"unknown falls back to slowest tier", domain.TicketPriority("URGENTE"), opened.Add(48 * time.Hour)},
		{"empty falls back to slowest tier", domain.TicketPriority(""), opened.Add(48 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDeadline(opened, tt.priority))
		})
	}
}

func TestComputeDeadlineZeroOpenedAt(t *testing.T) {
	before := time.Now()
	got := ComputeDeadline(time.Time{}, domain.TicketPriorityCritical)
	after := time.Now()

	assert.False(t, got.Before(before.Add(2*time.Hour)))
	assert.False(t, got.After(after.Add(2*time.Hour)))
}
