package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-client/internal/config"
	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/events"
	"github.com/spec-kit/helpdesk-client/internal/observability"
	"github.com/spec-kit/helpdesk-client/internal/routing"
	"github.com/spec-kit/helpdesk-client/internal/session"
	"github.com/spec-kit/helpdesk-client/internal/store"
	"github.com/spec-kit/helpdesk-client/internal/transport"
)

// app bundles the wired client components commands operate on.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()

	// The session manager logs in through the transport while the
	// transport reads its bearer token from the session; the closure
	// breaks the construction cycle.
	var manager *session.Manager
	client := transport.NewClient(cfg.API, func() string {
		if manager == nil {
			return ""
		}
		return manager.Token()
	}, logger, metrics)
	manager = session.NewManager(session.NewFileStore(cfg.Session.TokenFile), client, logger)
	manager.Restore()

	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range []events.EventType{
		events.EventSessionChanged,
		events.EventBucketsUpdated,
		events.EventMineUpdated,
		events.EventActiveTicketChanged,
		events.EventReferenceUpdated,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			logger.Debug("store event", zap.String("type", string(event.Type)), zap.Int64("ticket_id", event.TicketID))
			return nil
		})
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		store:  store.New(client, manager, dispatcher, logger),
	}, nil
}

// guard enforces a route requirement before a command body runs.
func (a *app) guard(req routing.Requirement) error {
	manager := a.store.Session()
	if routing.Guard(req, manager.Authenticated(), manager.Identity()) == routing.DecisionRedirectLogin {
		return errors.New("not authorized: run 'helpdesk login' first")
	}
	return nil
}

var (
	requireAuth  = routing.Requirement{RequiresAuth: true}
	requireStaff = routing.Requirement{
		RequiresAuth: true,
		Roles:        []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleTechnician},
	}
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "helpdesk",
		Short:         "Command-line client for the helpdesk ticketing API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newTicketsCommand(),
		newCategoriesCommand(),
		newProblemsCommand(),
		newTechniciansCommand(),
		newStatsCommand(),
	)
	return root
}

func parsePriority(s string) (domain.TicketPriority, error) {
	switch strings.ToLower(s) {
	case "low":
		return domain.TicketPriorityLow, nil
	case "medium":
		return domain.TicketPriorityMedium, nil
	case "high":
		return domain.TicketPriorityHigh, nil
	case "critical":
		return domain.TicketPriorityCritical, nil
	}
	return "", errors.New("priority must be one of low, medium, high, critical")
}
