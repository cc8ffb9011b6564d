package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/transport"
)

// fakeGateway implements Gateway through optional function fields; unset
// methods succeed with zero values.
type fakeGateway struct {
	fetchTickets   func(ctx context.Context) ([]domain.Ticket, error)
	fetchMine      func(ctx context.Context) ([]domain.Ticket, error)
	fetchTicket    func(ctx context.Context, id int64) (*domain.Ticket, error)
	createTicket   func(ctx context.Context, input transport.CreateTicketInput) (*domain.Ticket, error)
	classification func(ctx context.Context, id int64, category string, priority domain.TicketPriority) error
	upload         func(ctx context.Context, ticketID int64, file transport.FileUpload) (*domain.Ticket, error)
	download       func(ctx context.Context, id int64) ([]byte, string, error)
	addComment     func(ctx context.Context, ticketID int64, comment string) error
	assignSelf     func(ctx context.Context, ticketID int64) error
	assignTo       func(ctx context.Context, ticketID, technicianID int64) error
	closeTicket    func(ctx context.Context, ticketID int64, solution string) error
	reopen         func(ctx context.Context, ticketID int64, reason string) error

	fetchCategories  func(ctx context.Context) ([]domain.Category, error)
	fetchProblems    func(ctx context.Context) ([]domain.ProblemType, error)
	fetchTechnicians func(ctx context.Context) ([]domain.User, error)
	fetchStats       func(ctx context.Context, teamID *int64) (domain.DashboardStats, error)
}

func (f *fakeGateway) FetchTickets(ctx context.Context) ([]domain.Ticket, error) {
	if f.fetchTickets != nil {
		return f.fetchTickets(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) FetchMyTickets(ctx context.Context) ([]domain.Ticket, error) {
	if f.fetchMine != nil {
		return f.fetchMine(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) FetchTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	if f.fetchTicket != nil {
		return f.fetchTicket(ctx, id)
	}
	return &domain.Ticket{ID: id}, nil
}

func (f *fakeGateway) CreateTicket(ctx context.Context, input transport.CreateTicketInput) (*domain.Ticket, error) {
	if f.createTicket != nil {
		return f.createTicket(ctx, input)
	}
	return &domain.Ticket{ID: 1}, nil
}

func (f *fakeGateway) UpdateClassification(ctx context.Context, id int64, category string, priority domain.TicketPriority) error {
	if f.classification != nil {
		return f.classification(ctx, id, category, priority)
	}
	return nil
}

func (f *fakeGateway) UploadAttachment(ctx context.Context, ticketID int64, file transport.FileUpload) (*domain.Ticket, error) {
	if f.upload != nil {
		return f.upload(ctx, ticketID, file)
	}
	return &domain.Ticket{ID: ticketID}, nil
}

func (f *fakeGateway) DownloadAttachment(ctx context.Context, id int64) ([]byte, string, error) {
	if f.download != nil {
		return f.download(ctx, id)
	}
	return nil, "", nil
}

func (f *fakeGateway) AddComment(ctx context.Context, ticketID int64, comment string) error {
	if f.addComment != nil {
		return f.addComment(ctx, ticketID, comment)
	}
	return nil
}

func (f *fakeGateway) AssignSelf(ctx context.Context, ticketID int64) error {
	if f.assignSelf != nil {
		return f.assignSelf(ctx, ticketID)
	}
	return nil
}

func (f *fakeGateway) AssignTo(ctx context.Context, ticketID, technicianID int64) error {
	if f.assignTo != nil {
		return f.assignTo(ctx, ticketID, technicianID)
	}
	return nil
}

func (f *fakeGateway) Close(ctx context.Context, ticketID int64, solution string) error {
	if f.closeTicket != nil {
		return f.closeTicket(ctx, ticketID, solution)
	}
	return nil
}

func (f *fakeGateway) Reopen(ctx context.Context, ticketID int64, reason string) error {
	if f.reopen != nil {
		return f.reopen(ctx, ticketID, reason)
	}
	return nil
}

func (f *fakeGateway) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	if f.fetchCategories != nil {
		return f.fetchCategories(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) CreateCategory(context.Context, string) error { return nil }

func (f *fakeGateway) UpdateCategory(context.Context, int64, string) error { return nil }

func (f *fakeGateway) DeleteCategory(context.Context, int64) error { return nil }

func (f *fakeGateway) FetchProblems(ctx context.Context) ([]domain.ProblemType, error) {
	if f.fetchProblems != nil {
		return f.fetchProblems(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) CreateProblem(context.Context, string, domain.TicketPriority) error { return nil }

func (f *fakeGateway) UpdateProblem(context.Context, int64, string, domain.TicketPriority) error {
	return nil
}

func (f *fakeGateway) DeleteProblem(context.Context, int64) error { return nil }

func (f *fakeGateway) FetchTechnicians(ctx context.Context) ([]domain.User, error) {
	if f.fetchTechnicians != nil {
		return f.fetchTechnicians(ctx)
	}
	return nil, nil
}

func (f *fakeGateway) FetchDashboardStats(ctx context.Context, teamID *int64) (domain.DashboardStats, error) {
	if f.fetchStats != nil {
		return f.fetchStats(ctx, teamID)
	}
	return domain.DashboardStats{}, nil
}

func authedSession(t *testing.T, role string) *session.Manager {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "tester@example.com",
		"name": "Tester",
		"role": role,
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := session.NewMemoryStore()
	require.NoError(t, store.Write(token))
	manager := session.NewManager(store, nil, zap.NewNop())
	manager.Restore()
	require.True(t, manager.Authenticated())
	return manager
}

func newTestStore(t *testing.T, gw Gateway, role string) *Store {
	t.Helper()
	return New(gw, authedSession(t, role), nil, zap.NewNop())
}

func open(id int64) domain.Ticket {
	return domain.Ticket{ID: id, Status: domain.TicketStatusOpen}
}

func TestRefreshAllReplacesBucketsWholesale(t *testing.T) {
	ctx := context.Background()
	tickets := []domain.Ticket{
		open(1),
		{ID: 2, Status: domain.TicketStatusInProgress},
		{ID: 3, Status: domain.TicketStatusResolved},
	}
	gw := &fakeGateway{fetchTickets: func(context.Context) ([]domain.Ticket, error) {
		return tickets, nil
	}}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.RefreshAll(ctx))
	buckets := s.Buckets()
	assert.Len(t, buckets.Open, 1)
	assert.Len(t, buckets.InProgress, 1)
	assert.Len(t, buckets.Closed, 1)

	tickets = []domain.Ticket{open(9)}
	require.NoError(t, s.RefreshAll(ctx))
	buckets = s.Buckets()
	require.Len(t, buckets.Open, 1)
	assert.Equal(t, int64(9), buckets.Open[0].ID)
	assert.Empty(t, buckets.InProgress)
	assert.Empty(t, buckets.Closed)
}

func TestRefreshPublishesBucketCounts(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		fetchTickets: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{
				open(1),
				open(2),
				{ID: 3, Status: domain.TicketStatusInProgress},
				{ID: 4, Status: domain.TicketStatusResolved},
			}, nil
		},
		fetchMine: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{open(5), {ID: 6, Status: domain.TicketStatusClosed}}, nil
		},
	}

	dispatcher := events.NewInMemoryDispatcher()
	published := make(map[events.EventType]events.Event)
	record := func(_ context.Context, e events.Event) error {
		published[e.Type] = e
		return nil
	}
	dispatcher.Subscribe(events.EventBucketsUpdated, record)
	dispatcher.Subscribe(events.EventMineUpdated, record)

	s := New(gw, authedSession(t, "manager"), dispatcher, zap.NewNop())

	require.NoError(t, s.RefreshAll(ctx))
	counts, ok := published[events.EventBucketsUpdated].Payload.(events.BucketCounts)
	require.True(t, ok)
	assert.Equal(t, events.BucketCounts{Open: 2, InProgress: 1, Closed: 1}, counts)

	require.NoError(t, s.RefreshMine(ctx))
	counts, ok = published[events.EventMineUpdated].Payload.(events.BucketCounts)
	require.True(t, ok)
	assert.Equal(t, events.BucketCounts{Open: 1, Closed: 1}, counts)
}

func TestRefreshAllSkipsWhenLoggedOut(t *testing.T) {
	fetched := false
	gw := &fakeGateway{fetchTickets: func(context.Context) ([]domain.Ticket, error) {
		fetched = true
		return nil, nil
	}}
	s := New(gw, session.NewManager(session.NewMemoryStore(), nil, zap.NewNop()), nil, zap.NewNop())

	require.NoError(t, s.RefreshAll(context.Background()))
	assert.False(t, fetched)
}

func TestRefreshAllFailureLeavesBucketsUnchanged(t *testing.T) {
	ctx := context.Background()
	fail := false
	gw := &fakeGateway{fetchTickets: func(context.Context) ([]domain.Ticket, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return []domain.Ticket{open(1)}, nil
	}}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.RefreshAll(ctx))
	fail = true
	assert.Error(t, s.RefreshAll(ctx))

	buckets := s.Buckets()
	require.Len(t, buckets.Open, 1)
	assert.Equal(t, int64(1), buckets.Open[0].ID)
}

func TestRefreshAllDiscardsOutOfOrderResponse(t *testing.T) {
	ctx := context.Background()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls atomic.Int32

	gw := &fakeGateway{fetchTickets: func(context.Context) ([]domain.Ticket, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-releaseFirst
			return []domain.Ticket{open(1)}, nil // stale snapshot
		}
		return []domain.Ticket{open(1), open(2)}, nil
	}}
	s := newTestStore(t, gw, "manager")

	done := make(chan error, 1)
	go func() { done <- s.RefreshAll(ctx) }()
	<-firstStarted

	// A later refresh completes while the first request is still in flight.
	require.NoError(t, s.RefreshAll(ctx))
	require.Len(t, s.Buckets().Open, 2)

	close(releaseFirst)
	require.NoError(t, <-done)

	// The slow response arrived last but must not clobber the newer state.
	assert.Len(t, s.Buckets().Open, 2)
}

func TestRefreshMine(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{fetchMine: func(context.Context) ([]domain.Ticket, error) {
		return []domain.Ticket{
			open(1),
			{ID: 2, Status: domain.TicketStatusInProgress},
			{ID: 3, Status: domain.TicketStatusClosed},
		}, nil
	}}
	s := newTestStore(t, gw, "user")

	require.NoError(t, s.RefreshMine(ctx))
	mine := s.Mine()
	assert.Len(t, mine.Open, 2)
	assert.Len(t, mine.Closed, 1)
}

func TestFetchTicketClearsActiveBeforeRequest(t *testing.T) {
	ctx := context.Background()
	fail := false
	gw := &fakeGateway{fetchTicket: func(_ context.Context, id int64) (*domain.Ticket, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &domain.Ticket{ID: id, Status: domain.TicketStatusOpen}, nil
	}}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.FetchTicket(ctx, 7))
	require.NotNil(t, s.Active())
	assert.Equal(t, int64(7), s.Active().ID)

	fail = true
	assert.Error(t, s.FetchTicket(ctx, 8))
	assert.Nil(t, s.Active(), "failed fetch must leave the view empty, not stale")
}

func TestCloseTicketRefetchesActiveDetail(t *testing.T) {
	ctx := context.Background()
	closedAt := time.Date(2025, 3, 11, 15, 0, 0, 0, time.UTC)
	ticketClosed := false

	gw := &fakeGateway{
		closeTicket: func(_ context.Context, id int64, solution string) error {
			assert.Equal(t, "replaced cable", solution)
			ticketClosed = true
			return nil
		},
		fetchTicket: func(_ context.Context, id int64) (*domain.Ticket, error) {
			tk := &domain.Ticket{ID: id, Status: domain.TicketStatusOpen}
			if ticketClosed {
				tk.Status = domain.TicketStatusResolved
				tk.ClosedAt = &closedAt
			}
			return tk, nil
		},
	}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.FetchTicket(ctx, 5))
	require.NoError(t, s.CloseTicket(ctx, 5, "replaced cable"))

	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, domain.TicketStatusResolved, active.Status)
	require.NotNil(t, active.ClosedAt)
	assert.Equal(t, closedAt, *active.ClosedAt)
}

func TestCloseTicketLeavesForeignActiveAlone(t *testing.T) {
	ctx := context.Background()
	var detailFetches atomic.Int32
	gw := &fakeGateway{
		fetchTicket: func(_ context.Context, id int64) (*domain.Ticket, error) {
			detailFetches.Add(1)
			return &domain.Ticket{ID: id, Status: domain.TicketStatusOpen}, nil
		},
	}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.FetchTicket(ctx, 5))
	require.NoError(t, s.CloseTicket(ctx, 99, "done"))

	assert.Equal(t, int32(1), detailFetches.Load())
	assert.Equal(t, int64(5), s.Active().ID)
}

func TestCreateTicketRefreshScopeFollowsRole(t *testing.T) {
	ctx := context.Background()
	input := transport.CreateTicketInput{Description: "printer on fire"}

	t.Run("end user refreshes own buckets", func(t *testing.T) {
		var all, mine atomic.Int32
		gw := &fakeGateway{
			fetchTickets: func(context.Context) ([]domain.Ticket, error) { all.Add(1); return nil, nil },
			fetchMine:    func(context.Context) ([]domain.Ticket, error) { mine.Add(1); return nil, nil },
		}
		s := newTestStore(t, gw, "user")

		_, err := s.CreateTicket(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int32(0), all.Load())
		assert.Equal(t, int32(1), mine.Load())
	})

	t.Run("staff refreshes full buckets", func(t *testing.T) {
		var all, mine atomic.Int32
		gw := &fakeGateway{
			fetchTickets: func(context.Context) ([]domain.Ticket, error) { all.Add(1); return nil, nil },
			fetchMine:    func(context.Context) ([]domain.Ticket, error) { mine.Add(1); return nil, nil },
		}
		s := newTestStore(t, gw, "technician")

		_, err := s.CreateTicket(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, int32(1), all.Load())
		assert.Equal(t, int32(0), mine.Load())
	})
}

func TestCreateTicketFailurePropagatesWithoutRefresh(t *testing.T) {
	var refreshes atomic.Int32
	gw := &fakeGateway{
		createTicket: func(context.Context, transport.CreateTicketInput) (*domain.Ticket, error) {
			return nil, errors.New("rejected")
		},
		fetchTickets: func(context.Context) ([]domain.Ticket, error) { refreshes.Add(1); return nil, nil },
		fetchMine:    func(context.Context) ([]domain.Ticket, error) { refreshes.Add(1); return nil, nil },
	}
	s := newTestStore(t, gw, "user")

	_, err := s.CreateTicket(context.Background(), transport.CreateTicketInput{})
	assert.Error(t, err)
	assert.Equal(t, int32(0), refreshes.Load())
}

func TestUpdateClassificationRefreshesDetailBeforeList(t *testing.T) {
	ctx := context.Background()
	var order []string
	gw := &fakeGateway{
		fetchTicket: func(_ context.Context, id int64) (*domain.Ticket, error) {
			order = append(order, "detail")
			return &domain.Ticket{ID: id}, nil
		},
		fetchTickets: func(context.Context) ([]domain.Ticket, error) {
			order = append(order, "list")
			return nil, nil
		},
	}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.FetchTicket(ctx, 3))
	order = nil

	require.NoError(t, s.UpdateClassification(ctx, 3, "Hardware", domain.TicketPriorityHigh))
	assert.Equal(t, []string{"detail", "list"}, order)
}

func TestUploadAttachmentReplacesActiveFromResponse(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		upload: func(_ context.Context, ticketID int64, file transport.FileUpload) (*domain.Ticket, error) {
			return &domain.Ticket{
				ID:          ticketID,
				Attachments: []domain.Attachment{{ID: 42, FileName: file.Name}},
			}, nil
		},
	}
	s := newTestStore(t, gw, "user")

	require.NoError(t, s.FetchTicket(ctx, 4))
	require.NoError(t, s.UploadAttachment(ctx, 4, transport.FileUpload{Name: "screenshot.png"}))

	active := s.Active()
	require.NotNil(t, active)
	require.Len(t, active.Attachments, 1)
	assert.Equal(t, "screenshot.png", active.Attachments[0].FileName)
}

func TestLogoutClearsDerivedState(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{
		fetchTickets: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{open(1)}, nil
		},
		fetchMine: func(context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{open(2)}, nil
		},
	}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.RefreshAll(ctx))
	require.NoError(t, s.RefreshMine(ctx))
	require.NoError(t, s.FetchTicket(ctx, 1))

	s.Logout()

	assert.False(t, s.Session().Authenticated())
	assert.Empty(t, s.Buckets().Open)
	assert.Empty(t, s.Mine().Open)
	assert.Nil(t, s.Active())
}

func TestRefreshReferenceFailureLeavesListsUnchanged(t *testing.T) {
	ctx := context.Background()
	fail := false
	gw := &fakeGateway{
		fetchCategories: func(context.Context) ([]domain.Category, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []domain.Category{{ID: 1, Name: "Hardware"}}, nil
		},
		fetchProblems: func(context.Context) ([]domain.ProblemType, error) {
			return []domain.ProblemType{{ID: 1, Name: "Impressora"}}, nil
		},
	}
	s := newTestStore(t, gw, "manager")

	require.NoError(t, s.RefreshReference(ctx))
	require.Len(t, s.Categories(), 1)
	require.Len(t, s.Problems(), 1)

	fail = true
	assert.Error(t, s.RefreshReference(ctx))
	assert.Len(t, s.Categories(), 1)
	assert.Len(t, s.Problems(), 1)
}

func TestRefreshStatsScopesToTeam(t *testing.T) {
	var gotTeam *int64
	gw := &fakeGateway{
		fetchStats: func(_ context.Context, teamID *int64) (domain.DashboardStats, error) {
			gotTeam = teamID
			return domain.DashboardStats{Open: 2, InProgress: 1, Closed: 3, Total: 6, SLAViolated: 1}, nil
		},
	}
	s := newTestStore(t, gw, "manager")

	team := int64(7)
	require.NoError(t, s.RefreshStats(context.Background(), &team))
	require.NotNil(t, gotTeam)
	assert.Equal(t, int64(7), *gotTeam)
	assert.Equal(t, int64(6), s.Stats().Total)
}
