package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
)

// RefreshReference reloads both reference lists. The lists are small, so
// every reference mutation triggers a full reload instead of a local
// patch. On failure the cached lists are left unchanged.
func (s *Store) RefreshReference(ctx context.Context) error {
	categories, err := s.api.FetchCategories(ctx)
	if err != nil {
		s.logger.Warn("category list fetch failed", zap.Error(err))
		return err
	}
	problems, err := s.api.FetchProblems(ctx)
	if err != nil {
		s.logger.Warn("problem type list fetch failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.categories = categories
	s.problems = problems
	s.mu.Unlock()

	s.publish(events.EventReferenceUpdated, 0, nil)
	return nil
}

// RefreshAnalysts reloads the technician listing.
func (s *Store) RefreshAnalysts(ctx context.Context) error {
	analysts, err := s.api.FetchTechnicians(ctx)
	if err != nil {
		s.logger.Warn("technician list fetch failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.analysts = analysts
	s.mu.Unlock()
	return nil
}

// CreateCategory adds a category and reloads the reference lists.
func (s *Store) CreateCategory(ctx context.Context, name string) error {
	if err := s.api.CreateCategory(ctx, name); err != nil {
		return err
	}
	_ = s.RefreshReference(ctx)
	return nil
}

// UpdateCategory renames a category and reloads the reference lists.
func (s *Store) UpdateCategory(ctx context.Context, id int64, name string) error {
	if err := s.api.UpdateCategory(ctx, id, name); err != nil {
		return err
	}
	_ = s.RefreshReference(ctx)
	return nil
}

// DeleteCategory removes a category and reloads the reference lists.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return err
	}
	_ = s.RefreshReference(ctx)
	return nil
}

// CreateProblem adds a problem type and reloads the reference lists.
func (s *Store) CreateProblem(ctx context.Context, name string, defaultPriority domain.TicketPriority) error {
	if err := s.api.CreateProblem(ctx, name, defaultPriority); err != nil {
		return err
	}
	_ = s.RefreshReference(ctx)
	return nil
}

// UpdateProblem updates a problem type and reloads the reference lists.
func (s *Store) UpdateProblem(ctx context.Context, id int64, name string, defaultPriority domain.TicketPriority) error {
	if err := s.api.UpdateProblem(ctx, id, name, defaultPriority); err != nil {
		return err
	}
	_ = s.RefreshReference(ctx)
	return nil
}

// DeleteProblem removes a problem type and reloads the reference lists.
func (s *Store) DeleteProblem(ctx context.Context, id int64) error {
	if err := s.api.DeleteProblem(ctx, id); err != nil {
		return err
	}
	_ = s.RefreshReference(ctx)
	return nil
}
