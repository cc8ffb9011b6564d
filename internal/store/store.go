// Package store is the single authoritative holder of client-side ticket
// state: the classified buckets, reference data, dashboard aggregates and
// the one active ticket. Every mutation follows the mutate-then-reload
// protocol: one transport call, then a full re-fetch and wholesale
// reclassification, so client state can never diverge from
// server-computed fields.
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/classify"
	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/transport"
)

// Gateway is the transport surface the store drives. The concrete
// implementation is transport.Client; tests substitute fakes.
type Gateway interface {
	FetchTickets(ctx context.Context) ([]domain.Ticket, error)
	FetchMyTickets(ctx context.Context) ([]domain.Ticket, error)
	FetchTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, input transport.CreateTicketInput) (*domain.Ticket, error)
	UpdateClassification(ctx context.Context, id int64, category string, priority domain.TicketPriority) error
	UploadAttachment(ctx context.Context, ticketID int64, file transport.FileUpload) (*domain.Ticket, error)
	DownloadAttachment(ctx context.Context, id int64) ([]byte, string, error)
	AddComment(ctx context.Context, ticketID int64, comment string) error
	AssignSelf(ctx context.Context, ticketID int64) error
	AssignTo(ctx context.Context, ticketID, technicianID int64) error
	Close(ctx context.Context, ticketID int64, solution string) error
	Reopen(ctx context.Context, ticketID int64, reason string) error

	FetchCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) error
	UpdateCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
	FetchProblems(ctx context.Context) ([]domain.ProblemType, error)
	CreateProblem(ctx context.Context, name string, defaultPriority domain.TicketPriority) error
	UpdateProblem(ctx context.Context, id int64, name string, defaultPriority domain.TicketPriority) error
	DeleteProblem(ctx context.Context, id int64) error
	FetchTechnicians(ctx context.Context) ([]domain.User, error)
	FetchDashboardStats(ctx context.Context, teamID *int64) (domain.DashboardStats, error)
}

// Store orchestrates reads and writes against the transport and keeps the
// derived views consistent.
type Store struct {
	api        Gateway
	session    *session.Manager
	logger     *zap.Logger
	dispatcher events.Dispatcher

	// Refresh sequence counters. Each list refresh takes a ticket from
	// the counter before its request and applies its result only if no
	// later refresh already applied, closing the out-of-order response
	// race.
	allSeq  atomic.Uint64
	mineSeq atomic.Uint64

	mu          sync.RWMutex
	allApplied  uint64
	mineApplied uint64
	buckets     classify.Buckets
	mine        classify.MineBuckets
	active      *domain.Ticket
	categories  []domain.Category
	problems    []domain.ProblemType
	analysts    []domain.User
	stats       domain.DashboardStats
}

// New builds a store around the given gateway and session.
func New(api Gateway, sess *session.Manager, dispatcher events.Dispatcher, logger *zap.Logger) *Store {
	return &Store{api: api, session: sess, dispatcher: dispatcher, logger: logger}
}

// Session exposes the session manager the store was built with.
func (s *Store) Session() *session.Manager { return s.session }

// Buckets returns the current staff-facing partition.
func (s *Store) Buckets() classify.Buckets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets
}

// Mine returns the current user-scoped partition.
func (s *Store) Mine() classify.MineBuckets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mine
}

// Active returns the currently viewed ticket, or nil.
func (s *Store) Active() *domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Categories returns the cached category list.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Problems returns the cached problem type list.
func (s *Store) Problems() []domain.ProblemType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.problems
}

// Analysts returns the cached technician list.
func (s *Store) Analysts() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysts
}

// Stats returns the cached dashboard aggregates.
func (s *Store) Stats() domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Logout clears the session and every derived ticket view.
func (s *Store) Logout() {
	s.session.Logout()

	s.mu.Lock()
	s.buckets = classify.Buckets{}
	s.mine = classify.MineBuckets{}
	s.active = nil
	s.mu.Unlock()

	s.publish(events.EventSessionChanged, 0, nil)
}

// RefreshAll fetches the full ticket collection and replaces the staff
// buckets wholesale. On failure the buckets are left unchanged, the
// failure is logged and returned; retrying is the caller's concern. A
// response older than the last-applied one is discarded.
func (s *Store) RefreshAll(ctx context.Context) error {
	if !s.session.Authenticated() {
		return nil
	}

	seq := s.allSeq.Add(1)
	tickets, err := s.api.FetchTickets(ctx)
	if err != nil {
		s.logger.Warn("ticket list refresh failed", zap.Error(err))
		return err
	}

	buckets := classify.Classify(tickets, s.session.Identity())

	s.mu.Lock()
	if seq < s.allApplied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale ticket list response", zap.Uint64("seq", seq))
		return nil
	}
	s.allApplied = seq
	s.buckets = buckets
	s.mu.Unlock()

	s.publish(events.EventBucketsUpdated, 0, events.BucketCounts{
		Open:       len(buckets.Open),
		InProgress: len(buckets.InProgress),
		Closed:     len(buckets.Closed),
	})
	return nil
}

// RefreshMine fetches the caller-scoped collection and replaces the mine
// buckets wholesale, with the same failure and ordering rules as
// RefreshAll.
func (s *Store) RefreshMine(ctx context.Context) error {
	if !s.session.Authenticated() {
		return nil
	}

	seq := s.mineSeq.Add(1)
	tickets, err := s.api.FetchMyTickets(ctx)
	if err != nil {
		s.logger.Warn("scoped ticket list refresh failed", zap.Error(err))
		return err
	}

	mine := classify.ClassifyMine(tickets)

	s.mu.Lock()
	if seq < s.mineApplied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale scoped list response", zap.Uint64("seq", seq))
		return nil
	}
	s.mineApplied = seq
	s.mine = mine
	s.mu.Unlock()

	s.publish(events.EventMineUpdated, 0, events.BucketCounts{
		Open:   len(mine.Open),
		Closed: len(mine.Closed),
	})
	return nil
}

// FetchTicket loads one ticket into the active view. The previous active
// ticket is cleared before the request, so a stale ticket is never shown
// while the new one loads; on failure the view stays empty.
func (s *Store) FetchTicket(ctx context.Context, id int64) error {
	s.setActive(nil)

	ticket, err := s.api.FetchTicket(ctx, id)
	if err != nil {
		s.logger.Warn("ticket detail fetch failed", zap.Int64("ticket_id", id), zap.Error(err))
		return err
	}

	s.setActive(ticket)
	return nil
}

// RefreshStats fetches dashboard aggregates, optionally scoped to a team.
func (s *Store) RefreshStats(ctx context.Context, teamID *int64) error {
	stats, err := s.api.FetchDashboardStats(ctx, teamID)
	if err != nil {
		s.logger.Warn("dashboard stats fetch failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	return nil
}

// CreateTicket submits a new ticket and refreshes the view matching the
// caller's role: ordinary users observe the self-scoped buckets, staff
// observe the full set.
func (s *Store) CreateTicket(ctx context.Context, input transport.CreateTicketInput) (*domain.Ticket, error) {
	ticket, err := s.api.CreateTicket(ctx, input)
	if err != nil {
		return nil, err
	}
	s.refreshForRole(ctx)
	return ticket, nil
}

// CloseTicket resolves a ticket with a solution, then re-synchronizes.
func (s *Store) CloseTicket(ctx context.Context, id int64, solution string) error {
	if err := s.api.Close(ctx, id, solution); err != nil {
		return err
	}
	s.refreshForRole(ctx)
	s.refetchActiveIf(ctx, id)
	return nil
}

// ReopenTicket reverts a closed ticket with a reason, then
// re-synchronizes.
func (s *Store) ReopenTicket(ctx context.Context, id int64, reason string) error {
	if err := s.api.Reopen(ctx, id, reason); err != nil {
		return err
	}
	s.refreshForRole(ctx)
	s.refetchActiveIf(ctx, id)
	return nil
}

// AssignSelf claims the ticket for the calling technician.
func (s *Store) AssignSelf(ctx context.Context, id int64) error {
	if err := s.api.AssignSelf(ctx, id); err != nil {
		return err
	}
	_ = s.RefreshAll(ctx)
	s.refetchActiveIf(ctx, id)
	return nil
}

// AssignTicket assigns the ticket to a technician.
func (s *Store) AssignTicket(ctx context.Context, id, technicianID int64) error {
	if err := s.api.AssignTo(ctx, id, technicianID); err != nil {
		return err
	}
	_ = s.RefreshAll(ctx)
	s.refetchActiveIf(ctx, id)
	return nil
}

// AddComment appends a comment and re-fetches the ticket detail so the
// server-side history entry becomes visible.
func (s *Store) AddComment(ctx context.Context, id int64, comment string) error {
	if err := s.api.AddComment(ctx, id, comment); err != nil {
		return err
	}
	_ = s.FetchTicket(ctx, id)
	return nil
}

// UpdateClassification sets category and priority, refreshes the detail
// first when it targets the active ticket, then the staff list.
func (s *Store) UpdateClassification(ctx context.Context, id int64, category string, priority domain.TicketPriority) error {
	if err := s.api.UpdateClassification(ctx, id, category, priority); err != nil {
		return err
	}
	s.refetchActiveIf(ctx, id)
	_ = s.RefreshAll(ctx)
	return nil
}

// UploadAttachment attaches a file; when it targets the active ticket the
// server's response body replaces the active view directly.
func (s *Store) UploadAttachment(ctx context.Context, id int64, file transport.FileUpload) error {
	ticket, err := s.api.UploadAttachment(ctx, id, file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	replace := s.active != nil && s.active.ID == id
	if replace {
		s.active = ticket
	}
	s.mu.Unlock()
	if replace {
		s.publish(events.EventActiveTicketChanged, id, nil)
	}
	return nil
}

// Follow-up refresh failures after a successful mutation are logged by
// the refresh itself and not surfaced: the mutation went through.
func (s *Store) refreshForRole(ctx context.Context) {
	if s.session.Identity().IsEndUser() {
		_ = s.RefreshMine(ctx)
		return
	}
	_ = s.RefreshAll(ctx)
}

// refetchActiveIf reloads the detail view when the mutated ticket is the
// one currently displayed.
func (s *Store) refetchActiveIf(ctx context.Context, id int64) {
	s.mu.RLock()
	match := s.active != nil && s.active.ID == id
	s.mu.RUnlock()
	if match {
		_ = s.FetchTicket(ctx, id)
	}
}

func (s *Store) setActive(ticket *domain.Ticket) {
	s.mu.Lock()
	s.active = ticket
	s.mu.Unlock()

	var id int64
	if ticket != nil {
		id = ticket.ID
	}
	s.publish(events.EventActiveTicketChanged, id, nil)
}

func (s *Store) publish(eventType events.EventType, ticketID int64, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.Background(), events.Event{
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
