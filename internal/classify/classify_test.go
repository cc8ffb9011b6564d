package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-client/internal/domain"
)

func ticket(id int64, status domain.TicketStatus) domain.Ticket {
	return domain.Ticket{ID: id, Status: status}
}

func assigned(id int64, status domain.TicketStatus, login, name string) domain.Ticket {
	t := ticket(id, status)
	t.Assignee = &domain.User{ID: id * 100, Login: login, Name: name}
	return t
}

func ids(tickets []domain.Ticket) []int64 {
	out := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, t.ID)
	}
	return out
}

func TestClassify(t *testing.T) {
	manager := domain.Identity{Login: "marcos", Name: "Marcos", Role: domain.RoleManager}

	tickets := []domain.Ticket{
		ticket(1, domain.TicketStatusOpen),
		ticket(2, domain.TicketStatusOpen),
		ticket(3, domain.TicketStatusInProgress),
		ticket(4, domain.TicketStatusResolved),
		ticket(5, domain.TicketStatusCancelled),
	}

	buckets := Classify(tickets, manager)

	assert.Equal(t, []int64{1, 2}, ids(buckets.Open))
	assert.Equal(t, []int64{3}, ids(buckets.InProgress))
	assert.Equal(t, []int64{4, 5}, ids(buckets.Closed))
}

func TestClassifyClosedFamily(t *testing.T) {
	identity := domain.Identity{Role: domain.RoleManager}

	for _, status := range []domain.TicketStatus{
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
		domain.TicketStatusEnded,
		domain.TicketStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			buckets := Classify([]domain.Ticket{ticket(1, status)}, identity)
			assert.Len(t, buckets.Closed, 1)
			assert.Empty(t, buckets.Open)
			assert.Empty(t, buckets.InProgress)
		})
	}
}

func TestClassifyUnknownStatusInNoBucket(t *testing.T) {
	buckets := Classify([]domain.Ticket{
		ticket(1, domain.TicketStatusUnknown),
		ticket(2, domain.TicketStatus("Pendente")),
	}, domain.Identity{Role: domain.RoleManager})

	assert.Empty(t, buckets.Open)
	assert.Empty(t, buckets.InProgress)
	assert.Empty(t, buckets.Closed)
}

func TestClassifyTechnicianNarrowsInProgress(t *testing.T) {
	tech := domain.Identity{Login: "jose", Name: "José Lima", Role: domain.Role("technician")}

	tickets := []domain.Ticket{
		ticket(1, domain.TicketStatusOpen),
		assigned(2, domain.TicketStatusInProgress, "jose", "José Lima"),
		assigned(3, domain.TicketStatusInProgress, "other", "Outra Pessoa"),
		ticket(4, domain.TicketStatusInProgress), // unassigned
		assigned(5, domain.TicketStatusResolved, "other", "Outra Pessoa"),
	}

	buckets := Classify(tickets, tech)

	assert.Equal(t, []int64{1}, ids(buckets.Open))
	assert.Equal(t, []int64{2}, ids(buckets.InProgress))
	assert.Equal(t, []int64{5}, ids(buckets.Closed))
}

func TestClassifyTechnicianMatchesByNameAlone(t *testing.T) {
	// Server data sometimes carries only the display name on the assignee.
	tech := domain.Identity{Login: "jose.lima", Name: "José Lima", Role: domain.Role("Técnico")}

	tickets := []domain.Ticket{
		assigned(1, domain.TicketStatusInProgress, "", "jose lima"),
	}

	buckets := Classify(tickets, tech)
	require.Len(t, buckets.InProgress, 1)
	assert.Equal(t, int64(1), buckets.InProgress[0].ID)
}

func TestClassifyManagerSeesAllInProgress(t *testing.T) {
	manager := domain.Identity{Login: "marcos", Role: domain.RoleManager}

	tickets := []domain.Ticket{
		assigned(1, domain.TicketStatusInProgress, "jose", "José"),
		assigned(2, domain.TicketStatusInProgress, "ana", "Ana"),
	}

	buckets := Classify(tickets, manager)
	assert.Equal(t, []int64{1, 2}, ids(buckets.InProgress))
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	tickets := []domain.Ticket{
		ticket(1, domain.TicketStatusOpen),
		ticket(2, domain.TicketStatusResolved),
	}

	first := Classify(tickets, domain.Identity{Role: domain.RoleManager})
	second := Classify(tickets, domain.Identity{Role: domain.RoleManager})

	assert.Equal(t, first, second)
	assert.Equal(t, domain.TicketStatusOpen, tickets[0].Status)

	// Fresh slices each call; appending to one result must not leak into another.
	first.Open = append(first.Open, ticket(9, domain.TicketStatusOpen))
	assert.Len(t, second.Open, 1)
}

func TestClassifyMine(t *testing.T) {
	tickets := []domain.Ticket{
		ticket(1, domain.TicketStatusOpen),
		ticket(2, domain.TicketStatusInProgress),
		ticket(3, domain.TicketStatusResolved),
		ticket(4, domain.TicketStatusClosed),
		ticket(5, domain.TicketStatus("Pendente")),
	}

	buckets := ClassifyMine(tickets)

	assert.Equal(t, []int64{1, 2}, ids(buckets.Open))
	assert.Equal(t, []int64{3, 4}, ids(buckets.Closed))
}
