package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk-client/internal/domain"
	"github.com/spec-kit/helpdesk-client/internal/transport"
)

func newTicketsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List, inspect and mutate tickets",
	}
	cmd.AddCommand(
		newTicketsListCommand(),
		newTicketsMineCommand(),
		newTicketsShowCommand(),
		newTicketsCreateCommand(),
		newTicketsCloseCommand(),
		newTicketsReopenCommand(),
		newTicketsCommentCommand(),
		newTicketsAssignCommand(),
		newTicketsAssignSelfCommand(),
		newTicketsClassifyCommand(),
		newTicketsAttachCommand(),
		newTicketsDownloadCommand(),
	)
	return cmd
}

func parseTicketID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ticket id %q", arg)
	}
	return id, nil
}

func printTicketLine(cmd *cobra.Command, t domain.Ticket) {
	assignee := "-"
	if t.Assignee != nil {
		assignee = t.Assignee.Name
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-10s %-12s %-9s %-20s sla=%s  %s\n",
		t.ID, t.Number, t.Status, t.Priority, assignee,
		t.SLADeadline.Format("2006-01-02 15:04"), t.Description)
}

func newTicketsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all tickets grouped by lifecycle bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			if err := app.store.RefreshAll(cmd.Context()); err != nil {
				return err
			}

			buckets := app.store.Buckets()
			for _, group := range []struct {
				label   string
				tickets []domain.Ticket
			}{
				{"OPEN", buckets.Open},
				{"IN PROGRESS", buckets.InProgress},
				{"CLOSED", buckets.Closed},
			} {
				fmt.Fprintf(cmd.OutOrStdout(), "== %s (%d)\n", group.label, len(group.tickets))
				for _, t := range group.tickets {
					printTicketLine(cmd, t)
				}
			}
			return nil
		},
	}
}

func newTicketsMineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the caller's own tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			if err := app.store.RefreshMine(cmd.Context()); err != nil {
				return err
			}

			mine := app.store.Mine()
			fmt.Fprintf(cmd.OutOrStdout(), "== OPEN (%d)\n", len(mine.Open))
			for _, t := range mine.Open {
				printTicketLine(cmd, t)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "== CLOSED (%d)\n", len(mine.Closed))
			for _, t := range mine.Closed {
				printTicketLine(cmd, t)
			}
			return nil
		},
	}
}

func newTicketsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one ticket in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			if err := app.store.FetchTicket(cmd.Context(), id); err != nil {
				return err
			}

			t := app.store.Active()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ticket %s (#%d)\n", t.Number, t.ID)
			fmt.Fprintf(out, "Status:      %s\n", t.Status)
			fmt.Fprintf(out, "Priority:    %s\n", t.Priority)
			fmt.Fprintf(out, "Opened:      %s\n", t.OpenedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "SLA due:     %s\n", t.SLADeadline.Format("2006-01-02 15:04"))
			if t.ClosedAt != nil {
				fmt.Fprintf(out, "Closed:      %s\n", t.ClosedAt.Format("2006-01-02 15:04"))
			}
			if t.Assignee != nil {
				fmt.Fprintf(out, "Assignee:    %s\n", t.Assignee.Name)
			}
			if t.Reopened {
				fmt.Fprintln(out, "Reopened:    yes")
			}
			fmt.Fprintf(out, "Description: %s\n", t.Description)
			if t.Solution != nil {
				fmt.Fprintf(out, "Solution:    %s\n", *t.Solution)
			}
			if len(t.Attachments) > 0 {
				fmt.Fprintln(out, "Attachments:")
				for _, a := range t.Attachments {
					fmt.Fprintf(out, "  [%d] %s (%s)\n", a.ID, a.FileName, a.MimeType)
				}
			}
			if len(t.History) > 0 {
				fmt.Fprintln(out, "History:")
				for _, h := range t.History {
					fmt.Fprintf(out, "  %s  %-12s %s %s\n", h.Timestamp.Format("2006-01-02 15:04"), h.Action, h.Actor, h.Comment)
				}
			}
			return nil
		},
	}
}

func newTicketsCreateCommand() *cobra.Command {
	var (
		description string
		categoryID  int64
		problemID   int64
		priority    string
		files       []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new ticket, optionally with attachments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}

			input := transport.CreateTicketInput{
				Description: description,
				CategoryID:  categoryID,
				ProblemID:   problemID,
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				input.Priority = p
			}

			opened := make([]*os.File, 0, len(files))
			defer func() {
				for _, f := range opened {
					f.Close()
				}
			}()
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				opened = append(opened, f)
				input.Files = append(input.Files, transport.FileUpload{Name: filepath.Base(path), Content: f})
			}

			ticket, err := app.store.CreateTicket(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created ticket %s (#%d)\n", ticket.Number, ticket.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "ticket description")
	cmd.Flags().Int64Var(&categoryID, "category-id", 0, "category id")
	cmd.Flags().Int64Var(&problemID, "problem-id", 0, "problem type id")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or critical")
	cmd.Flags().StringSliceVar(&files, "file", nil, "attachment path (repeatable)")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func newTicketsCloseCommand() *cobra.Command {
	var solution string
	cmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close a ticket with a solution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			if err := app.store.CloseTicket(cmd.Context(), id, solution); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %d closed\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&solution, "solution", "s", "", "solution text")
	_ = cmd.MarkFlagRequired("solution")
	return cmd
}

func newTicketsReopenCommand() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a closed ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			if err := app.store.ReopenTicket(cmd.Context(), id, reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %d reopened\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "reopen reason")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newTicketsCommentCommand() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "comment <id>",
		Short: "Add a comment to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			if err := app.store.AddComment(cmd.Context(), id, message); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment added to ticket %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "comment text")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}

func newTicketsAssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <technician-id>",
		Short: "Assign a ticket to a technician",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			techID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid technician id %q", args[1])
			}
			if err := app.store.AssignTicket(cmd.Context(), id, techID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %d assigned\n", id)
			return nil
		},
	}
}

func newTicketsAssignSelfCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign-self <id>",
		Short: "Claim a ticket for yourself",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			if err := app.store.AssignSelf(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %d assigned to you\n", id)
			return nil
		},
	}
}

func newTicketsClassifyCommand() *cobra.Command {
	var (
		category string
		priority string
	)
	cmd := &cobra.Command{
		Use:   "classify <id>",
		Short: "Set a ticket's category and priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			p, err := parsePriority(priority)
			if err != nil {
				return err
			}
			if err := app.store.UpdateClassification(cmd.Context(), id, category, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ticket %d reclassified\n", id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or critical")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("priority")
	return cmd
}

func newTicketsAttachCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "attach <id>",
		Short: "Attach a file to a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			file := transport.FileUpload{Name: filepath.Base(path), Content: f}
			if err := app.store.UploadAttachment(cmd.Context(), id, file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to ticket %d\n", filepath.Base(path), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "file to attach")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newTicketsDownloadCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "download <ticket-id> <attachment-id>",
		Short: "Download a ticket attachment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireAuth); err != nil {
				return err
			}
			id, err := parseTicketID(args[0])
			if err != nil {
				return err
			}
			attachmentID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid attachment id %q", args[1])
			}

			if err := app.store.FetchTicket(cmd.Context(), id); err != nil {
				return err
			}
			var attachment *domain.Attachment
			for _, a := range app.store.Active().Attachments {
				if a.ID == attachmentID {
					attachment = &a
					break
				}
			}
			if attachment == nil {
				return fmt.Errorf("ticket %d has no attachment %d", id, attachmentID)
			}

			path, err := app.store.DownloadAttachment(cmd.Context(), *attachment, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "destination directory")
	return cmd
}
