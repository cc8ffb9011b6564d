package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage ticket categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			if err := app.store.RefreshReference(cmd.Context()); err != nil {
				return err
			}
			for _, cat := range app.store.Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %s\n", cat.ID, cat.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			return app.store.CreateCategory(cmd.Context(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}
			return app.store.UpdateCategory(cmd.Context(), id, args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid category id %q", args[0])
			}
			return app.store.DeleteCategory(cmd.Context(), id)
		},
	})

	return cmd
}

func newProblemsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "problems",
		Short: "Manage problem types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List problem types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			if err := app.store.RefreshReference(cmd.Context()); err != nil {
				return err
			}
			for _, p := range app.store.Problems() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-30s default=%s\n", p.ID, p.Name, p.DefaultPriority)
			}
			return nil
		},
	})

	cmd.AddCommand(newProblemsCreateCommand(), newProblemsUpdateCommand(), newProblemsDeleteCommand())

	return cmd
}

func newProblemsCreateCommand() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a problem type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			p, err := parsePriority(priority)
			if err != nil {
				return err
			}
			return app.store.CreateProblem(cmd.Context(), args[0], p)
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "medium", "default priority")
	return cmd
}

func newProblemsUpdateCommand() *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Update a problem type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid problem id %q", args[0])
			}
			p, err := parsePriority(priority)
			if err != nil {
				return err
			}
			return app.store.UpdateProblem(cmd.Context(), id, args[1], p)
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "medium", "default priority")
	return cmd
}

func newProblemsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a problem type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid problem id %q", args[0])
			}
			return app.store.DeleteProblem(cmd.Context(), id)
		},
	}
}

func newTechniciansCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "technicians",
		Short: "List technicians tickets can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}
			if err := app.store.RefreshAnalysts(cmd.Context()); err != nil {
				return err
			}
			for _, tech := range app.store.Analysts() {
				team := "-"
				if tech.Team != nil {
					team = tech.Team.Name
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-20s %-25s team=%s\n", tech.ID, tech.Name, tech.Email, team)
			}
			return nil
		},
	}
}

func newStatsCommand() *cobra.Command {
	var teamID int64
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.guard(requireStaff); err != nil {
				return err
			}

			var team *int64
			if teamID != 0 {
				team = &teamID
			}
			if err := app.store.RefreshStats(cmd.Context(), team); err != nil {
				return err
			}

			stats := app.store.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open:          %d\n", stats.Open)
			fmt.Fprintf(out, "In progress:   %d\n", stats.InProgress)
			fmt.Fprintf(out, "Closed:        %d\n", stats.Closed)
			fmt.Fprintf(out, "Total:         %d\n", stats.Total)
			fmt.Fprintf(out, "SLA violated:  %d\n", stats.SLAViolated)
			return nil
		},
	}
	cmd.Flags().Int64Var(&teamID, "team", 0, "restrict to one team id")
	return cmd
}
